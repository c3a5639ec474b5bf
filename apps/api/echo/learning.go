package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type learningApi struct {
	*server
}

func registerLearningAPI(g *echo.Group, s *server) {
	api := learningApi{s}

	lg := g.Group("/learningpath")
	lg.GET("", api.list)
	lg.GET("/:learningPathId", api.retrieve, idParams("learningPathId"))
}

func (api learningApi) list(ctx echo.Context) error {
	paths, err := api.deps.LearningSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing learning paths")
	}
	return ctx.JSON(http.StatusOK, paths)
}

func (api learningApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "learningPathId")
	if err != nil {
		return err
	}
	lp, err := api.deps.LearningSvc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding learning path")
	}
	return ctx.JSON(http.StatusOK, lp)
}
