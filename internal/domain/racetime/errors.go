package racetime

import "errors"

// ErrInvalidTime reports text that is not an elapsed time.
var ErrInvalidTime = errors.New("invalid race time")
