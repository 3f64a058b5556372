package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount indicates a flashcard count outside 1..50.
	ErrInvalidCount = errors.New("count must be between 1 and 50")

	// ErrUnsupportedFile indicates a file extension the backend does not accept.
	ErrUnsupportedFile = errors.New("file type not allowed")

	// ErrEmptyInput indicates an empty file name or blank text.
	ErrEmptyInput = errors.New("nothing to generate from")

	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("backend request timed out")
)

// APIError is a non-2xx response. Message is the server's "error" field when
// it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}
