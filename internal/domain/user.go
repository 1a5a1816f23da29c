package domain

import (
	"context"
	"errors"
)

// ErrEmailTaken indicates the users table already holds the given email.
// Stores must return it for uniqueness violations so callers can surface the
// same field error whether the pre-check or the constraint caught the
// duplicate.
var ErrEmailTaken = errors.New("email already registered")

// User is an account that can sign in to the dashboard. PasswordHash is a
// bcrypt hash; the plaintext is never persisted.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u User) error
	DeleteByEmail(ctx context.Context, email string) error
	EmailTaken(ctx context.Context, email string) (bool, error)
}
