package config

import "errors"

// Sentinel errors returned by Load, Validate and RequireRoster.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrNoRoster      = errors.New("roster_file is required")
)
