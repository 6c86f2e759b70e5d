package reembed

import "errors"

// ErrInvalidMaxAttempts indicates a retry call with a non-positive attempt count.
var ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
