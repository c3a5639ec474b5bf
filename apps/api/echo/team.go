package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
)

type teamApi struct {
	*server
}

func registerTeamAPI(g *echo.Group, s *server) {
	api := teamApi{s}

	tg := g.Group("/team")

	sg := tg.Group("/student", s.protectStudent())
	sg.GET("", api.studentTeams)
	sg.GET("/assignment/:assignmentId", api.studentTeam, idParams("assignmentId"))

	teachers := tg.Group("/teacher", s.protectTeacher())
	teachers.POST("/assignment/:assignmentId", api.create, idParams("assignmentId"))
	teachers.GET("/assignment/:assignmentId", api.assignmentTeams, idParams("assignmentId"))
	teachers.PUT("/assignment/:assignmentId", api.update, idParams("assignmentId"))
	teachers.DELETE("/:teamId", api.destroy, idParams("teamId"))

	tg.GET("/:teamId/members", api.members, s.protectAny(), idParams("teamId"))
}

func (api teamApi) studentTeams(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	teams, err := api.deps.StudentTeamSvc.GetStudentTeams(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying student teams")
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api teamApi) studentTeam(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	assignmentID, err := paramID(ctx, "assignmentId")
	if err != nil {
		return err
	}
	team, err := api.deps.StudentTeamSvc.GetTeam(ctx.Request().Context(), student.ID, assignmentID)
	if err != nil {
		return errors.Wrap(err, "finding student team")
	}
	if team == nil {
		return classroom.ErrTeamNotFound
	}
	return ctx.JSON(http.StatusOK, team)
}

func (api teamApi) members(ctx echo.Context) error {
	teamID, err := paramID(ctx, "teamId")
	if err != nil {
		return err
	}
	team, err := api.deps.StudentTeamSvc.GetTeamByID(ctx.Request().Context(), teamID)
	if err != nil {
		return errors.Wrap(err, "finding team")
	}
	if team == nil {
		return classroom.ErrTeamNotFound
	}
	if team.Students == nil {
		team.Students = []user.Profile{}
	}
	return ctx.JSON(http.StatusOK, team.Students)
}

func (api teamApi) create(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	assignmentID, err := paramID(ctx, "assignmentId")
	if err != nil {
		return err
	}
	var data classroom.NewTeamDivision
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeamDivision")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	teams, err := api.deps.TeacherTeamsSvc.CreateTeamsInAssignment(ctx.Request().Context(), teacher.ID, assignmentID, data)
	if err != nil {
		return errors.Wrap(err, "creating teams")
	}
	return ctx.JSON(http.StatusCreated, teams)
}

func (api teamApi) assignmentTeams(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	assignmentID, err := paramID(ctx, "assignmentId")
	if err != nil {
		return err
	}
	teams, err := api.deps.TeacherTeamsSvc.GetTeamsThatHaveAssignment(ctx.Request().Context(), teacher.ID, assignmentID)
	if err != nil {
		return errors.Wrap(err, "querying assignment teams")
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api teamApi) update(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	assignmentID, err := paramID(ctx, "assignmentId")
	if err != nil {
		return err
	}
	var data classroom.IdentifiableTeamDivision
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IdentifiableTeamDivision")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	teams, err := api.deps.TeacherTeamsSvc.UpdateTeamsForAssignment(ctx.Request().Context(), teacher.ID, assignmentID, data)
	if err != nil {
		return errors.Wrap(err, "updating teams")
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api teamApi) destroy(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	teamID, err := paramID(ctx, "teamId")
	if err != nil {
		return err
	}
	if err = api.deps.TeacherTeamsSvc.DeleteTeam(ctx.Request().Context(), teacher.ID, teamID); err != nil {
		return errors.Wrap(err, "deleting team")
	}
	return ctx.NoContent(http.StatusNoContent)
}
