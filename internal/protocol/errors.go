package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRequestLine is returned when the request line carries fewer
	// than three space separated tokens.
	ErrMalformedRequestLine = errors.New("protocol: malformed request line")
	// ErrMissingContentType is returned when a response has a body but no content type.
	ErrMissingContentType = errors.New("protocol: content type required for non-empty body")
	// ErrUnsupportedStatus is returned when a response status cannot be framed.
	ErrUnsupportedStatus = errors.New("protocol: unsupported status")
	// ErrResponseSent is returned when a handler tries to send a second response.
	ErrResponseSent = errors.New("protocol: response already sent")
)

// IOError wraps a read or write failure on the connection stream. Any IOError
// is terminal for the connection it happened on.
type IOError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("protocol: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying stream error.
func (e *IOError) Unwrap() error {
	return e.Err
}

func newIOError(op string, err error) *IOError {
	return &IOError{Op: op, Err: err}
}
