package inmemdb

import (
	"context"

	"github.com/SELab-2/Dwengo-1/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	defer repo.db.lock(ctx)()

	for _, u := range repo.db.data.users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = repo.db.data.nextID("users")
	repo.db.data.users[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int, role string) (user.User, error) {
	defer repo.db.lock(ctx)()

	if usr, ok := repo.db.data.users[id]; ok && (role == "" || usr.Role == role) {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email, role string) (user.User, error) {
	defer repo.db.lock(ctx)()

	for _, usr := range repo.db.data.users {
		if usr.Email == email && (role == "" || usr.Role == role) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	defer repo.db.lock(ctx)()

	orig, ok := repo.db.data.users[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	for _, u := range repo.db.data.users {
		if u.ID != usr.ID && u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.Role = orig.Role
	usr.CreatedAt = orig.CreatedAt
	repo.db.data.users[usr.ID] = usr
	return usr, nil
}
