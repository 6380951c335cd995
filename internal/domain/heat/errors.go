package heat

import "errors"

// ErrUnknownMode reports an unrecognized heat mode name.
var ErrUnknownMode = errors.New("unknown heat mode")
