package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
)

// idParams coerces the named path params to positive integers and stores them in the context under their name.
func idParams(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			var fldErrs []core.FieldError
			for _, name := range names {
				id, err := strconv.Atoi(ctx.Param(name))
				if err != nil || id <= 0 {
					fldErrs = append(fldErrs, core.FieldError{Field: name, Error: name + " must be a positive integer"})
					continue
				}
				ctx.Set(name, id)
			}
			if len(fldErrs) > 0 {
				return core.NewValidationError(nil, fldErrs...)
			}
			return next(ctx)
		}
	}
}

// paramID returns a path param stored by idParams.
func paramID(ctx echo.Context, name string) (int, error) {
	if id, ok := ctx.Get(name).(int); ok {
		return id, nil
	}
	return 0, errors.Errorf("param %q not found in echo.Context", name)
}

// queryBool parses an optional boolean query param.
func queryBool(ctx echo.Context, name string) (bool, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, core.NewValidationError(nil, core.FieldError{Field: name, Error: name + " must be a boolean"})
	}
	return b, nil
}
