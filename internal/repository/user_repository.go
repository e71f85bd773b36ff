package repository

import (
	"context"
	"errors"

	"github.com/strukly/strukly-backend/internal/domain"
)

// ErrUserNotFound is returned when no user matches the given ID or email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registering with an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}
