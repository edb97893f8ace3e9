package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dhruv1249/expense-server/internal/auth"
	"github.com/Dhruv1249/expense-server/internal/errs"
	"github.com/Dhruv1249/expense-server/internal/models"
)

// AuthService wraps the authenticator and token manager behind the error
// taxonomy the rest of the surface uses.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens}
}

// Session is an authenticated user plus their bearer token.
type Session struct {
	User  *models.User
	Token string
}

// Register creates an account and logs the user straight in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	if name == "" || email == "" || password == "" {
		return nil, errs.Validation("name, email, and password are required")
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		return nil, errs.Validation("%v", err)
	case errors.Is(err, auth.ErrEmailExists):
		return nil, errs.Conflict("%v", err)
	case err != nil:
		return nil, errs.Internal("failed to register user", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, errs.Internal("failed to issue token", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, errs.Validation("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return nil, errs.Authorization("%v", err)
	}
	if err != nil {
		return nil, errs.Internal("failed to authenticate", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, errs.Internal("failed to issue token", err)
	}

	return &Session{User: user, Token: token}, nil
}
