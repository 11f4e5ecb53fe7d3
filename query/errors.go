package query

import "errors"

// ErrInvalidAttempts is returned when the attempt count is below one.
var ErrInvalidAttempts = errors.New("query: attempts must be at least 1")
