package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/classroom"
)

type classApi struct {
	*server
}

func registerClassAPI(g *echo.Group, s *server) {
	api := classApi{s}

	cg := g.Group("/class/teacher", s.protectTeacher())
	cg.POST("", api.create)
	cg.GET("", api.list)

	dg := cg.Group("/:classId", idParams("classId"))
	dg.GET("", api.retrieve)
	dg.POST("/join-code", api.regenerateJoinCode)
	dg.GET("/students", api.students)
	dg.DELETE("/students/:studentId", api.removeStudent, idParams("studentId"))
}

func (api classApi) create(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	var data classroom.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	class, err := api.deps.ClassSvc.CreateClass(ctx.Request().Context(), teacher.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, class)
}

func (api classApi) list(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	classes, err := api.deps.ClassSvc.GetTeacherClasses(ctx.Request().Context(), teacher.ID)
	if err != nil {
		return errors.Wrap(err, "querying teacher classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api classApi) retrieve(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	class, err := api.deps.ClassSvc.GetTeacherClass(ctx.Request().Context(), teacher.ID, classID)
	if err != nil {
		return errors.Wrap(err, "finding class")
	}
	return ctx.JSON(http.StatusOK, class)
}

func (api classApi) regenerateJoinCode(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	class, err := api.deps.ClassSvc.RegenerateJoinCode(ctx.Request().Context(), teacher.ID, classID)
	if err != nil {
		return errors.Wrap(err, "regenerating join code")
	}
	return ctx.JSON(http.StatusOK, class)
}

func (api classApi) students(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	students, err := api.deps.ClassSvc.GetClassStudents(ctx.Request().Context(), teacher.ID, classID)
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api classApi) removeStudent(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	studentID, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	if err = api.deps.ClassSvc.RemoveStudent(ctx.Request().Context(), teacher.ID, classID, studentID); err != nil {
		return errors.Wrap(err, "removing student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
