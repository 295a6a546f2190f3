// Package service holds the business rules between the HTTP handlers and the
// store.
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ PasswordService (bcrypt), TokenService (JWT)
//
// Services return *apperror.AppError for anything the client caused and plain
// wrapped errors for everything else. They never touch http types.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// Client-facing messages for the auth flow.
const (
	msgUserExists         = "user already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgSignupFieldsNeeded = "Name, email and password are required"
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput is the signup payload. ID is optional; one is generated when
// it is empty.
type RegisterInput struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// Register creates a user account.
//
// The email lookup gives the common duplicate case a clean answer, but it is
// not what guarantees uniqueness: two signups racing past the lookup are
// settled by the store's UNIQUE constraint, which also surfaces as
// apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperror.ValidationFailed("", msgSignupFieldsNeeded)
	}

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.Conflict(msgUserExists)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: checking for existing user: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", "Password must be 72 bytes or fewer")
		}
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		ID:           in.ID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if user.ID == "" {
		user.ID = xid.New().String()
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login checks the credentials and returns a signed token.
//
// The email lookup runs before the password check, so an unknown email returns
// faster than a wrong password. Both produce the same client-facing error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.WarnContext(ctx, "login failed", slog.String("reason", "unknown email"))
			return "", apperror.Unauthorized(msgInvalidCredentials)
		}
		return "", fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.WarnContext(ctx, "login failed",
				slog.String("reason", "wrong password"),
				slog.String("user_id", user.ID),
			)
			return "", apperror.Unauthorized(msgInvalidCredentials)
		}
		return "", fmt.Errorf("service/auth: verifying password for user %s: %w", user.ID, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return token, nil
}
