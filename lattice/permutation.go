package lattice

import "fmt"

// Permutation maps old window ids to new ones: perm[old] = new.
type Permutation []int

// Identity returns the identity permutation on [0,k).
func Identity(k int) Permutation {
	p := make(Permutation, k)
	for i := range p {
		p[i] = i
	}
	return p
}

// FromOrder converts a visiting order (order[newPos] = old) into an
// old→new Permutation.
func FromOrder(order []int) (Permutation, error) {
	k := len(order)
	p := make(Permutation, k)
	for i := range p {
		p[i] = -1
	}
	for pos, old := range order {
		if old < 0 || old >= k || p[old] != -1 {
			return nil, fmt.Errorf("FromOrder: entry %d=%d: %w", pos, old, ErrBadPermutation)
		}
		p[old] = pos
	}
	return p, nil
}

// Validate checks that p is a bijection on [0,k).
// Complexity: O(k) time, O(k) space.
func (p Permutation) Validate(k int) error {
	if len(p) != k || k <= 0 {
		return ErrBadPermutation
	}
	seen := make([]bool, k)
	for _, v := range p {
		if v < 0 || v >= k || seen[v] {
			return ErrBadPermutation
		}
		seen[v] = true
	}
	return nil
}

// IsIdentity reports whether p maps every id to itself.
func (p Permutation) IsIdentity() bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}
