package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mbeckett/carworth/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup and signin. It never touches the session;
// writing the session cookie on success is the handler's responsibility.
type AuthService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewAuthService creates a new AuthService with the given bcrypt cost.
func NewAuthService(users domain.UserRepository, bcryptCost int) *AuthService {
	return &AuthService{users: users, bcryptCost: bcryptCost}
}

// Signup creates a new account. Email is treated as an opaque unique string;
// no normalization is applied. The duplicate pre-check here is an
// optimization — the storage-layer UNIQUE constraint is what actually
// guarantees uniqueness when two signups race.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Signin verifies credentials and returns the matching user. An unknown
// email yields ErrNotFound and a wrong password ErrInvalidCredentials; the
// two stay distinct all the way to the response, matching the upstream
// behavior this service replicates.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
