package service

import (
	"context"
	"fmt"

	"github.com/mbeckett/carworth/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserService exposes user lookup and profile maintenance.
type UserService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListByEmail returns all users with the given email. An empty result is
// ErrNotFound, matching the lookup endpoint's contract.
func (s *UserService) ListByEmail(ctx context.Context, email string) ([]domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email query is required", domain.ErrInvalidInput)
	}

	users, err := s.users.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNotFound
	}
	return users, nil
}

// UpdateUser carries the optional fields of a profile update.
type UpdateUser struct {
	Email    *string
	Password *string
}

// Update applies a partial update. A new password is hashed before it is
// persisted; plaintext never reaches the store.
func (s *UserService) Update(ctx context.Context, id int64, update UpdateUser) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		if *update.Email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
		}
		user.Email = *update.Email
	}
	if update.Password != nil {
		if *update.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Remove deletes the user with the given id.
func (s *UserService) Remove(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
