package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// CredentialStore exposes user credential lookup operations required by the auth service.
type CredentialStore interface {
	GetUserCredentials(ctx context.Context, userID string) (UserCredentials, error)
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService checks login credentials.
type AuthService struct {
	credentials    CredentialStore
	verifyPassword PasswordVerifier
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials CredentialStore, verify PasswordVerifier) *AuthService {
	return NewAuthServiceWithLogger(credentials, verify, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, verify PasswordVerifier, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = NewPasswordHasher(DefaultArgon2idParams).Verify
	}
	return &AuthService{
		credentials:    credentials,
		verifyPassword: verify,
		logger:         defaultLogger(logger),
	}
}

// Authenticate returns the user whose id and password match params. Unknown
// ids, empty fields and wrong passwords all yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (user User, err error) {
	if s == nil {
		return User{}, fmt.Errorf("AuthService is nil")
	}
	if s.credentials == nil {
		return User{}, fmt.Errorf("credential store not configured")
	}

	logger := serviceLogger(ctx, s.logger, "AuthService", "Authenticate", "user_id", params.UserID)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "authentication succeeded")
	}()

	if params.UserID == "" || params.Password == "" {
		return User{}, ErrInvalidCredentials
	}

	creds, err := s.credentials.GetUserCredentials(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := s.verifyPassword(creds.PasswordHash, params.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("verify password: %w", err)
	}

	return creds.User, nil
}
