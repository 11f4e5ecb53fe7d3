package indexing

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is less than 1.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
