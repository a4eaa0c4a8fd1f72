package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a user id is already registered.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when the id/password pair does not match a user.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
)

// MissingFieldError reports a required request field that was not supplied.
type MissingFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("application: missing field %q", e.Field)
}

// RequireFields returns a *MissingFieldError for the first name whose value
// is empty. Pairs are (name, value).
func RequireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &MissingFieldError{Field: pairs[i]}
		}
	}
	return nil
}
