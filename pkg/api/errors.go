package api

import (
	"errors"
	"fmt"
)

// Error taxonomy. Transport and server failures are wrapped into these
// before they leave this package; views never see raw errors.
var (
	// ErrAuthRequired means the credential is missing, invalid or expired.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound means the addressed chat no longer exists.
	ErrNotFound = errors.New("chat not found")

	// ErrParse means the server or store produced a schema-invalid payload.
	ErrParse = errors.New("invalid payload")
)

// ServerError is a non-2xx response that is none of the sentinel kinds.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// IsAuthRequired reports whether err is an AuthRequired condition.
func IsAuthRequired(err error) bool { return errors.Is(err, ErrAuthRequired) }

// IsNotFound reports whether err is a NotFound condition.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
