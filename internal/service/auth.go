// Package service holds the business logic that sits between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"errors"

	"github.com/iliyamo/blog-rest-api/internal/auth"
	"github.com/iliyamo/blog-rest-api/internal/model"
	"github.com/iliyamo/blog-rest-api/internal/repository"
	"github.com/iliyamo/blog-rest-api/internal/utils"
)

// UserDirectory is the slice of the user repository the auth service
// needs. Declared here so tests can substitute an in-memory directory.
type UserDirectory interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (model.User, error)
	Create(ctx context.Context, u model.User) (uint64, error)
	FindRoleByName(ctx context.Context, name string) (model.Role, error)
}

// RegisteredMessage is the exact body returned on successful registration.
const RegisteredMessage = "User Registered Successfully!"

// AuthService implements login and registration over a user directory, a
// token codec and the bcrypt hasher.
type AuthService struct {
	users      UserDirectory
	codec      *auth.Codec
	bcryptCost int
}

func NewAuthService(users UserDirectory, codec *auth.Codec, bcryptCost int) *AuthService {
	return &AuthService{users: users, codec: codec, bcryptCost: bcryptCost}
}

// Login resolves the identifier as username or email, verifies the
// password and mints a token whose subject is the user's username. An
// unknown identifier still costs one bcrypt verify so a lookup miss and a
// wrong password are indistinguishable from the outside.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	u, err := s.users.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.VerifyDummy(password)
			return "", auth.ErrBadCredentials
		}
		return "", err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return "", auth.ErrBadCredentials
	}
	return s.codec.Mint(u.Username)
}

// Register creates a new user with the default ROLE_USER role. The
// up-front existence checks give friendly errors; the unique constraints
// in the directory remain the authority when two registrations race, and
// a duplicate-key error from Create surfaces as the same duplicate kinds.
func (s *AuthService) Register(ctx context.Context, name, username, email, password string) (string, error) {
	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return "", err
	} else if taken {
		return "", repository.ErrDuplicateUsername
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return "", err
	} else if taken {
		return "", repository.ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", err
	}

	role, err := s.users.FindRoleByName(ctx, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", auth.ErrMisconfigured
		}
		return "", err
	}

	if _, err := s.users.Create(ctx, model.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []model.Role{role},
	}); err != nil {
		return "", err
	}
	return RegisteredMessage, nil
}
