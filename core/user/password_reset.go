package user

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
)

var errInvalidResetLink = core.NewValidationError(nil, core.FieldError{
	Field: "token",
	Error: "the password reset link is invalid or has expired",
})

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

type ResetUserPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

func (r *ResetUserPassword) Validate(validate *validator.Validate) error {
	r.UID = core.CleanString(r.UID)
	r.Token = core.CleanString(r.Token)
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Password != r.PasswordConfirm {
		return core.NewValidationError(nil, core.FieldError{Field: "passwordConfirm", Error: "passwords do not match"})
	}
	return nil
}

type PasswordResetService struct {
	users    *Service
	mailSvc  core.EmailService
	tokens   tokenGenerator
	resetURL string
}

func NewPasswordResetService(users *Service, mailSvc core.EmailService, conf *core.Config) *PasswordResetService {
	return &PasswordResetService{
		users:    users,
		mailSvc:  mailSvc,
		tokens:   newTokenGenerator(conf.SecretKey, conf.PasswordResetTimeoutDelta),
		resetURL: conf.FrontendBaseURL + "/password-reset",
	}
}

// RequestPasswordReset emails a single-use reset link to the user with that email.
// Returns ErrNotFound when there is no such user.
func (svc *PasswordResetService) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("uid", EncodeUID(usr))
	q.Set("token", svc.tokens.makeToken(usr))
	link := svc.resetURL + "?" + q.Encode()

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FirstName + " " + usr.LastName, Address: usr.Email}},
		Subject: "Password reset",
		Body: fmt.Sprintf(
			"Hi %s,\n\nSomeone asked to reset the password of your account.\n"+
				"Follow this link to choose a new one:\n\n%s\n\n"+
				"If you did not ask for this, you can ignore this email.\n",
			usr.FirstName, link,
		),
	})
	return nil
}

// ResetPassword sets a new password when rp carries a valid reset link. rp must be validated.
func (svc *PasswordResetService) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return errInvalidResetLink
	}
	usr, err := svc.users.repo.GetUserByID(ctx, id, "")
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return errInvalidResetLink
		}
		return errors.Wrap(err, "finding user by id")
	}
	if err = svc.tokens.verifyToken(usr, rp.Token); err != nil {
		return errInvalidResetLink
	}
	return svc.users.SetPassword(ctx, usr.Email, rp.Password)
}
