package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/classroom"
)

type studentApi struct {
	*server
}

func registerStudentAPI(g *echo.Group, s *server) {
	api := studentApi{s}

	sg := g.Group("/student/classes", s.protectStudent())
	sg.GET("", api.classes)
	sg.POST("/join", api.join)
	sg.GET("/:classId", api.class, idParams("classId"))
}

func (api studentApi) classes(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	classes, err := api.deps.StudentSvc.GetStudentClasses(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying student classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api studentApi) class(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	classID, err := paramID(ctx, "classId")
	if err != nil {
		return err
	}
	class, err := api.deps.StudentSvc.GetStudentClass(ctx.Request().Context(), student.ID, classID)
	if err != nil {
		return errors.Wrap(err, "finding student class")
	}
	return ctx.JSON(http.StatusOK, class)
}

// join accepts the join code in the body or in the query string.
func (api studentApi) join(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	var data classroom.JoinRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinRequest")
	}
	if data.JoinCode == "" {
		data.JoinCode = ctx.QueryParam("joinCode")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	class, err := api.deps.StudentSvc.JoinClass(ctx.Request().Context(), student.ID, data.JoinCode)
	if err != nil {
		return errors.Wrap(err, "joining class")
	}
	return ctx.JSON(http.StatusOK, class)
}
