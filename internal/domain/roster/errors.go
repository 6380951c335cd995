package roster

import "errors"

// Sentinel kinds for roster lookups.
var (
	ErrUnknownRunner   = errors.New("runner not on any roster")
	ErrDuplicateRunner = errors.New("runner rostered twice")
)
