// Package auth implements the login, signup and logout flows against
// the backend, including the field validation that blocks a request
// before any network call.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"gyaanseek_cli/pkg/api"
	"gyaanseek_cli/pkg/store"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a validation failure tied to one form field. It is
// produced before any request is sent.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// API is the slice of the remote client the auth flows need.
type API interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Signup(ctx context.Context, firstName, lastName, email, password string) (string, error)
	Logout(ctx context.Context) (string, error)
}

// Service runs auth flows and keeps the local credential state.
type Service struct {
	remote API
	local  store.Store
}

// NewService creates an auth service.
func NewService(remote API, local store.Store) *Service {
	return &Service{remote: remote, local: local}
}

// ValidateLogin checks the login form. Returns nil when valid.
func ValidateLogin(email, password string) *FieldError {
	if strings.TrimSpace(email) == "" {
		return &FieldError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &FieldError{Field: "email", Message: "email is not valid"}
	}
	if password == "" {
		return &FieldError{Field: "password", Message: "password is required"}
	}
	return nil
}

// ValidateSignup checks the signup form. Returns nil when valid.
func ValidateSignup(firstName, lastName, email, password string) *FieldError {
	if strings.TrimSpace(firstName) == "" {
		return &FieldError{Field: "firstName", Message: "first name is required"}
	}
	if strings.TrimSpace(lastName) == "" {
		return &FieldError{Field: "lastName", Message: "last name is required"}
	}
	if strings.TrimSpace(email) == "" {
		return &FieldError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &FieldError{Field: "email", Message: "email is not valid"}
	}
	if len(password) < minPasswordLength {
		return &FieldError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	return nil
}

// Login validates, authenticates and persists the credential and user
// record. Returns the server's message for display.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if fieldErr := ValidateLogin(email, password); fieldErr != nil {
		return "", fieldErr
	}

	result, err := s.remote.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		slog.Warn("login_failed", "error", err)
		return "", err
	}

	user := store.User{
		ID:        result.User.ID,
		FirstName: result.User.FirstName,
		LastName:  result.User.LastName,
		Email:     result.User.Email,
	}
	if err := store.SetCredentials(s.local, result.Token, user); err != nil {
		return "", fmt.Errorf("failed to persist credentials: %w", err)
	}

	slog.Info("login_succeeded", "user_id", user.ID)
	if result.Message != "" {
		return result.Message, nil
	}
	return "Login succeeded", nil
}

// Signup validates and registers a new account. The caller routes back
// to the login view on success.
func (s *Service) Signup(ctx context.Context, firstName, lastName, email, password string) (string, error) {
	if fieldErr := ValidateSignup(firstName, lastName, email, password); fieldErr != nil {
		return "", fieldErr
	}

	message, err := s.remote.Signup(ctx, strings.TrimSpace(firstName), strings.TrimSpace(lastName), strings.TrimSpace(email), password)
	if err != nil {
		slog.Warn("signup_failed", "error", err)
		return "", err
	}
	if message == "" {
		message = "Signup succeeded"
	}
	return message, nil
}

// Logout ends the server session and clears local credentials together
// with the superseded legacy prompt-history blob.
func (s *Service) Logout(ctx context.Context) (string, error) {
	message, err := s.remote.Logout(ctx)
	if err != nil {
		slog.Warn("logout_failed", "error", err)
		return "", err
	}

	user, _ := store.CurrentUser(s.local)
	if err := store.ClearCredentials(s.local); err != nil {
		return "", fmt.Errorf("failed to clear credentials: %w", err)
	}
	if err := store.ClearLegacyHistory(s.local, user.ID); err != nil {
		slog.Warn("legacy_history_clear_failed", "error", err)
	}

	if message == "" {
		message = "Logged out"
	}
	return message, nil
}
