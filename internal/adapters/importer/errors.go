package importer

import "errors"

// Sentinel kinds for import errors.
var (
	ErrMalformed = errors.New("malformed input")
	ErrOpen      = errors.New("open input file failed")
)
