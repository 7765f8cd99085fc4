package admissibility

import "errors"

// ErrBadTolerance indicates a negative drift tolerance.
var ErrBadTolerance = errors.New("admissibility: tolerance must be >= 0")
