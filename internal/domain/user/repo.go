package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a live (non-deleted) user already
	// holds the email or phone number.
	ErrEmailTaken = errors.New("email or phone number already registered")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Activate marks the account verified and clears the stored code.
	Activate(ctx context.Context, id int64) error
}
