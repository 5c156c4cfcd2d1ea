package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
)

var (
	// ErrNotFound is returned by every store when a record is missing, not owned
	// by the caller, or addressed by an id the store cannot parse.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned by Create when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
