package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrInconsistent marks a Map whose forward and inverse directions disagree.
	ErrInconsistent = errors.New("lattice: inconsistent map")

	// ErrBadK indicates a non-positive window count.
	ErrBadK = errors.New("lattice: window count must be > 0")

	// ErrBadPermutation indicates a permutation that is not a bijection on [0,K).
	ErrBadPermutation = errors.New("lattice: invalid permutation")
)

// ConsistencyError describes the first disagreement found between the two
// directions of a Map. It matches ErrInconsistent via errors.Is.
type ConsistencyError struct {
	Token  string
	Window int
	Reason string
}

// Error implements error.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("lattice: inconsistent map: token %q window %d: %s", e.Token, e.Window, e.Reason)
}

// Is reports whether target is ErrInconsistent.
func (e *ConsistencyError) Is(target error) bool { return target == ErrInconsistent }
