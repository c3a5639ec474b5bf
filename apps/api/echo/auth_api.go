package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/user"
)

var errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, user.ErrInvalidCredentials.Error())

type authApi struct {
	*server
}

func registerAuthAPI(g *echo.Group, s *server) {
	api := authApi{s}

	ag := g.Group("/auth")
	for _, role := range []string{user.RoleStudent, user.RoleTeacher} {
		ag.POST("/"+role+"/register", api.register(role))
		ag.POST("/"+role+"/login", api.login(role))
	}
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)
}

type SuccessResponse struct {
	Success string `json:"success"`
}

const (
	PasswordResetRequested = "If the email address supplied is associated with an account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."
	PasswordResetDone = "Password has been reset with the new password."
)

type TokenResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (api authApi) register(role string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var data user.NewUser
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to NewUser")
		}
		if err := data.Validate(api.deps.Validate); err != nil {
			return err
		}

		usr, err := api.deps.UserSvc.Register(ctx.Request().Context(), role, data)
		if err != nil {
			return errors.Wrap(err, "registering "+role)
		}
		token, err := GenerateToken(api.deps.Conf, usr)
		if err != nil {
			return errors.Wrap(err, "generating token")
		}
		return ctx.JSON(http.StatusCreated, TokenResponse{Token: token, User: usr})
	}
}

func (api authApi) login(role string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var data user.Credentials
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to Credentials")
		}
		if err := data.Validate(api.deps.Validate); err != nil {
			return err
		}

		usr, err := api.deps.UserSvc.Authenticate(ctx.Request().Context(), role, data)
		if err != nil {
			if errors.Cause(err) == user.ErrInvalidCredentials {
				return errInvalidCredentials
			}
			return errors.Wrap(err, "authenticating")
		}
		token, err := GenerateToken(api.deps.Conf, usr)
		if err != nil {
			return errors.Wrap(err, "generating token")
		}
		return ctx.JSON(http.StatusOK, TokenResponse{Token: token, User: usr})
	}
}

func (api authApi) resetPassword(ctx echo.Context) error {
	var data user.PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	// the response does not tell whether the email is known
	if err := api.deps.PasswordResetSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			api.deps.Logger.Error(fmt.Sprintf("requesting password reset: %v", err), err)
		}
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: PasswordResetRequested})
}

func (api authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.PasswordResetSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: PasswordResetDone})
}
