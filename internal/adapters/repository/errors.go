package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("heat not found")
	ErrInvalidLimit = errors.New("invalid list limit")
	ErrMissingID    = errors.New("heat record has no id")
)
