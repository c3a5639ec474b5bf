package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/question"
)

type questionApi struct {
	*server
}

func registerQuestionAPI(g *echo.Group, s *server) {
	api := questionApi{s}

	qg := g.Group("/question")

	sg := qg.Group("/student", s.protectStudent())
	sg.POST("/general", api.createGeneral)
	sg.POST("/specific", api.createSpecific)
	sg.PUT("/:questionId", api.update, idParams("questionId"))
	sg.GET("/team/:teamId", api.studentTeamQuestions, idParams("teamId"))

	tg := qg.Group("/teacher", s.protectTeacher())
	tg.GET("/team/:teamId", api.teacherTeamQuestions, idParams("teamId"))
}

func (api questionApi) createGeneral(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	var data question.NewGeneralQuestion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGeneralQuestion")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	q, err := api.deps.QuestionSvc.CreateQuestionGeneral(ctx.Request().Context(), student.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating general question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api questionApi) createSpecific(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	var data question.NewSpecificQuestion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSpecificQuestion")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	q, err := api.deps.QuestionSvc.CreateQuestionSpecific(ctx.Request().Context(), student.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating specific question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api questionApi) update(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	questionID, err := paramID(ctx, "questionId")
	if err != nil {
		return err
	}
	var data question.UpdateQuestion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuestion")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	q, err := api.deps.QuestionSvc.UpdateQuestion(ctx.Request().Context(), questionID, student.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api questionApi) studentTeamQuestions(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	teamID, err := paramID(ctx, "teamId")
	if err != nil {
		return err
	}
	if err = api.deps.StudentTeamSvc.CheckMember(ctx.Request().Context(), student.ID, teamID); err != nil {
		return errors.Wrap(err, "checking team membership")
	}
	return api.teamQuestions(ctx, teamID)
}

func (api questionApi) teacherTeamQuestions(ctx echo.Context) error {
	teacher, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	teamID, err := paramID(ctx, "teamId")
	if err != nil {
		return err
	}
	if err = api.deps.TeacherTeamsSvc.CheckTeacher(ctx.Request().Context(), teacher.ID, teamID); err != nil {
		return errors.Wrap(err, "checking team teacher")
	}
	return api.teamQuestions(ctx, teamID)
}

func (api questionApi) teamQuestions(ctx echo.Context, teamID int) error {
	tq, err := api.deps.QuestionSvc.GetQuestionsTeam(ctx.Request().Context(), teamID)
	if err != nil {
		return errors.Wrap(err, "querying team questions")
	}
	return ctx.JSON(http.StatusOK, tq)
}
