package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/user"
)

var (
	userColumns    = []string{"id", "first_name", "last_name", "email", "role", "password_hash", "created_at", "updated_at"}
	profileColumns = []string{"u.id", "u.email", "u.first_name", "u.last_name"}

	// role: profile table
	profileTables = map[string]string{
		user.RoleStudent: "students",
		user.RoleTeacher: "teachers",
	}
)

type userRepository struct {
	base
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{base{db: db}}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	table, ok := profileTables[usr.Role]
	if !ok {
		return user.User{}, errors.Errorf("unknown role %q", usr.Role)
	}

	q := psql.Insert("users").
		Columns("first_name", "last_name", "email", "role", "password_hash", "created_at", "updated_at").
		Values(usr.FirstName, usr.LastName, usr.Email, usr.Role, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt).
		Suffix("RETURNING id")
	if err := repo.get(ctx, &usr.ID, q); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}

	if _, err := repo.exec(ctx, psql.Insert(table).Columns("id").Values(usr.ID)); err != nil {
		return user.User{}, errors.Wrap(err, "inserting "+usr.Role)
	}
	return usr, nil
}

func (repo *userRepository) getUser(ctx context.Context, where sq.Eq) (user.User, error) {
	var usr user.User
	if err := repo.get(ctx, &usr, psql.Select(userColumns...).From("users").Where(where)); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int, role string) (user.User, error) {
	where := sq.Eq{"id": id}
	if role != "" {
		where["role"] = role
	}
	return repo.getUser(ctx, where)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email, role string) (user.User, error) {
	where := sq.Eq{"email": email}
	if role != "" {
		where["role"] = role
	}
	return repo.getUser(ctx, where)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := psql.Update("users").
		SetMap(map[string]interface{}{
			"first_name":    usr.FirstName,
			"last_name":     usr.LastName,
			"email":         usr.Email,
			"password_hash": usr.PasswordHash,
			"updated_at":    usr.UpdatedAt,
		}).
		Where(sq.Eq{"id": usr.ID}).
		Suffix("RETURNING " + joinColumns(userColumns))

	var updated user.User
	if err := repo.get(ctx, &updated, q); err != nil {
		switch {
		case isNoRows(err):
			return user.User{}, user.ErrNotFound
		case isUniqueViolation(err):
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return updated, nil
}
