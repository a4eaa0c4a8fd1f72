package testfixtures

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/webapp-server/internal/application"
)

// UserStore is an in-memory application.UserRepository and
// application.CredentialStore.
type UserStore struct {
	mu    sync.Mutex
	users []application.UserCredentials
	err   error
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{}
}

// FailWith makes every subsequent call return err.
func (s *UserStore) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *UserStore) AddUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return application.User{}, s.err
	}
	for _, existing := range s.users {
		if existing.User.ID == user.ID {
			return application.User{}, fmt.Errorf("%w: %s", application.ErrAlreadyExists, user.ID)
		}
	}
	s.users = append(s.users, application.UserCredentials{User: user, PasswordHash: passwordHash})
	return user, nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]application.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]application.User, 0, len(s.users))
	for _, c := range s.users {
		out = append(out, c.User)
	}
	return out, nil
}

func (s *UserStore) GetUserCredentials(ctx context.Context, userID string) (application.UserCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return application.UserCredentials{}, s.err
	}
	for _, c := range s.users {
		if c.User.ID == userID {
			return c, nil
		}
	}
	return application.UserCredentials{}, application.ErrNotFound
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
