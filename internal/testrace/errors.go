package testrace

import "errors"

// ErrInvalidConfig reports a generator configuration that cannot produce a meet.
var ErrInvalidConfig = errors.New("invalid race config")
