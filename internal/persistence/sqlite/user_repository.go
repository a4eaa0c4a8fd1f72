package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/webapp-server/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite
type UserRepository struct {
	pool *ConnectionPool
}

// NewUserRepository creates a new SQLite user repository
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{pool: pool}
}

// AddUser inserts a new user. A second user with the same id is rejected
// with persistence.ErrDuplicate.
func (r *UserRepository) AddUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO users (id, password_hash, name, email, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.pool.DB().ExecContext(ctx, query,
		user.ID,
		user.PasswordHash,
		user.Name,
		user.Email,
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// FindUserByID retrieves a user by ID from the database
func (r *UserRepository) FindUserByID(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, password_hash, name, email, created_at
		FROM users
		WHERE id = ?
	`

	var user persistence.User
	var createdAt string
	err := r.pool.DB().QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.PasswordHash,
		&user.Name,
		&user.Email,
		&createdAt,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return user, nil
}

// FindAll returns all users in insertion order.
func (r *UserRepository) FindAll(ctx context.Context) ([]persistence.User, error) {
	query := `
		SELECT id, password_hash, name, email, created_at
		FROM users
		ORDER BY seq ASC
	`

	rows, err := r.pool.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := make([]persistence.User, 0)
	for rows.Next() {
		var user persistence.User
		var createdAt string
		if err := rows.Scan(&user.ID, &user.PasswordHash, &user.Name, &user.Email, &createdAt); err != nil {
			return nil, mapError(err)
		}
		if user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return users, nil
}
