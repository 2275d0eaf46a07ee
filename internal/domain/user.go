package domain

import (
	"context"
	"time"
)

// User represents a registered account. PasswordHash is a bcrypt hash and
// must never cross the serialization boundary; handlers expose users only
// through their DTO.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
// The email column carries a UNIQUE constraint at the storage layer; that
// constraint, not the service-level pre-check, is what guarantees uniqueness
// under concurrent signups. Create and Update report a violation as
// ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByEmail(ctx context.Context, email string) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
