package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	AddUser(ctx context.Context, user User, passwordHash string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// PasswordHashFunc derives the stored form of a plaintext password.
type PasswordHashFunc func(password string) (string, error)

// UserService registers and lists users.
type UserService struct {
	users  UserRepository
	hash   PasswordHashFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, hash PasswordHashFunc, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, hash, now, nil)
}

// NewUserServiceWithLogger wires dependencies for the user service with a specified logger.
func NewUserServiceWithLogger(users UserRepository, hash PasswordHashFunc, now func() time.Time, logger *slog.Logger) *UserService {
	if hash == nil {
		hash = NewPasswordHasher(DefaultArgon2idParams).Hash
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, hash: hash, now: now, logger: defaultLogger(logger)}
}

// RegisterUser validates the submitted fields, hashes the password and stores
// the user. Every field is required.
func (s *UserService) RegisterUser(ctx context.Context, params RegisterUserParams) (user User, err error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "UserService", "RegisterUser", "user_id", params.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "user registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user registered")
	}()

	if err = RequireFields(
		"userId", params.UserID,
		"password", params.Password,
		"name", params.Name,
		"email", params.Email,
	); err != nil {
		return User{}, err
	}

	var hash string
	hash, err = s.hash(params.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user = User{
		ID:        params.UserID,
		Name:      params.Name,
		Email:     params.Email,
		CreatedAt: s.now(),
	}
	user, err = s.users.AddUser(ctx, user, hash)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// ListUsers returns every registered user in registration order.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return nil, nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		serviceLogger(ctx, s.logger, "UserService", "ListUsers").
			ErrorContext(ctx, "listing users failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	out := make([]User, len(users))
	copy(out, users)
	return out, nil
}
