package persistence

import "context"

// UserRepository stores user records. Implementations must be safe for
// concurrent use by every connection handler.
type UserRepository interface {
	AddUser(ctx context.Context, user User) error
	FindUserByID(ctx context.Context, id string) (User, error)
	// FindAll returns every user in insertion order.
	FindAll(ctx context.Context) ([]User, error)
}
