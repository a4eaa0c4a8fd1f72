// Package memory provides the in-process user store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/webapp-server/internal/persistence"
)

// Storage keeps users in memory. Reads and writes are guarded by a single
// RWMutex so connection handlers can share one instance.
type Storage struct {
	mu    sync.RWMutex
	users map[string]persistence.User
	order []string
}

// Open returns an empty Storage.
func Open() *Storage {
	return &Storage{users: make(map[string]persistence.User)}
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// AddUser stores a new user. Ids are unique.
func (s *Storage) AddUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("memory: user %s: %w", user.ID, persistence.ErrDuplicate)
	}

	s.users[user.ID] = user
	s.order = append(s.order, user.ID)
	return nil
}

// FindUserByID retrieves a user by ID.
func (s *Storage) FindUserByID(ctx context.Context, id string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

// FindAll returns a snapshot of all users in the order they were added.
func (s *Storage) FindAll(ctx context.Context) ([]persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]persistence.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, s.users[id])
	}
	return users, nil
}
