package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		// CreateUser stores the user and its student or teacher profile. Returns ErrEmailExists on a duplicate email.
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUserByID returns ErrNotFound unless a user with that id has a profile for role. Matches any role when role is empty.
		GetUserByID(ctx context.Context, id int, role string) (User, error)
		// GetUserByEmail matches any role when role is empty.
		GetUserByEmail(ctx context.Context, email, role string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		tx   core.Transactor
		repo Repository
	}
)

func NewService(tx core.Transactor, repo Repository) *Service {
	return &Service{tx: tx, repo: repo}
}

// Register creates a student or teacher account. nu must be validated.
func (svc *Service) Register(ctx context.Context, role string, nu NewUser) (User, error) {
	now := core.Now()
	usr := User{
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Email:     nu.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		usr, err = svc.repo.CreateUser(ctx, usr)
		return err
	})
	if err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

// Authenticate returns the user of role matching the credentials, or ErrInvalidCredentials.
func (svc *Service) Authenticate(ctx context.Context, role string, creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(creds.Email, true /* lower */), role)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *Service) GetStudent(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id, RoleStudent)
}

func (svc *Service) GetTeacher(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id, RoleTeacher)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */), "")
}

// SetPassword replaces the password of the user with that email, applying the password policy.
func (svc *Service) SetPassword(ctx context.Context, email, pwd string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = ValidatePassword(pwd, usr.FirstName, usr.LastName, usr.Email); err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = core.Now()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "updating user")
}
