package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/classroom"
)

type assignmentApi struct {
	*server
}

func registerAssignmentAPI(g *echo.Group, s *server) {
	api := assignmentApi{s}

	ag := g.Group("/assignment")

	sg := ag.Group("/student", s.protectStudent())
	sg.GET("", api.studentAssignments)
	sg.GET("/class/:classId", api.studentClassAssignments, idParams("classId"))

	tg := ag.Group("/teacher", s.protectTeacher())
	tg.POST("/class/:classId", api.create, idParams("classId"))
	tg.GET("/class/:classId", api.classAssignments, idParams("classId"))
	tg.PUT("/:assignmentId", api.update, idParams("assignmentId"))
	tg.DELETE("/:assignmentId", api.destroy, idParams("assignmentId"))

	ag.GET("/:assignmentId", api.retrieve, idParams("assignmentId"))
}

func (api assignmentApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "assignmentId")
	if err != nil {
		return err
	}
	includeClass, err := queryBool(ctx, "includeClass")
	if err != nil {
		return err
	}
	includeTeams, err := queryBool(ctx, "includeTeams")
	if err != nil {
		return err
	}

	a, err := api.deps.AssignmentSvc.GetAssignmentByID(ctx.Request().Context(), id, includeClass, includeTeams)
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}
	if a == nil {
		return classroom.ErrAssignmentNotFound
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api assignmentApi) bindQuery(ctx echo.Context) (classroom.AssignmentQuery, error) {
	var q classroom.AssignmentQuery
	if err := ctx.Bind(&q); err != nil {
		return q, errors.Wrap(err, "binding to AssignmentQuery")
	}
	return q, q.Validate(api.deps.Validate)
}

func (api assignmentApi) studentAssignments(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	q, err := api.bindQuery(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.deps.StudentAssignmentSvc.GetAssignmentsForStudent(ctx.Request().Context(), student.ID, q)
	if err != nil {
		return errors.Wrap(err, "querying student assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api assignmentApi) studentClassAssignments(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	q, err := api.bindQuery(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.deps.StudentAssignmentSvc.GetAssignmentsForStudentInClass(ctx.Request().Context(), student.ID, classID, q)
	if err != nil {
		return errors.Wrap(err, "querying student class assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api assignmentApi) create(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	var data classroom.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	a, err := api.deps.AssignmentSvc.CreateAssignmentForClass(ctx.Request().Context(), teacher.ID, classID, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api assignmentApi) classAssignments(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	assignments, err := api.deps.AssignmentSvc.GetAssignmentsByClass(ctx.Request().Context(), teacher.ID, classID)
	if err != nil {
		return errors.Wrap(err, "querying class assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api assignmentApi) update(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "assignmentId")
	if err != nil {
		return err
	}
	var data classroom.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	a, err := api.deps.AssignmentSvc.UpdateAssignment(ctx.Request().Context(), teacher.ID, id, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api assignmentApi) destroy(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "assignmentId")
	if err != nil {
		return err
	}
	if err = api.deps.AssignmentSvc.DeleteAssignment(ctx.Request().Context(), teacher.ID, id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
