package persistence

import "time"

// User represents a registered account as stored.
type User struct {
	ID           string
	PasswordHash string
	Name         string
	Email        string
	CreatedAt    time.Time
}
