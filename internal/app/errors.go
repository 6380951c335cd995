package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoMeet     = errors.New("service has no meet roster")
	ErrNotStarted = errors.New("service not started")
	ErrQueueFull  = errors.New("scoring queue full")
)
