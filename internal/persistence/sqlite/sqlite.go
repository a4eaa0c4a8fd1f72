// Package sqlite provides the durable user store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
)

// Storage bundles the connection pool with the repositories built on it.
type Storage struct {
	*UserRepository

	pool *ConnectionPool
}

// Open connects to dsn with DefaultConfig settings.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	return OpenWithConfig(ctx, DefaultConfig(dsn))
}

// OpenWithConfig connects using cfg.
func OpenWithConfig(ctx context.Context, cfg Config) (*Storage, error) {
	pool, err := NewConnectionPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Storage{UserRepository: NewUserRepository(pool), pool: pool}, nil
}

// Migrate brings the schema up to date.
func (s *Storage) Migrate(ctx context.Context) error {
	return migrate(ctx, s.pool)
}

// Close releases the underlying connections.
func (s *Storage) Close() error {
	return s.pool.Close()
}
