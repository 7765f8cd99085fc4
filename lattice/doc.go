// Package lattice holds the core model artifact: the paired
// (token→window, window→tokens) map over a ring of K windows, and the
// explicit permutations used to reorder it.
//
// Invariants:
//   - Single-valued: every token maps to exactly one window in [0,K).
//   - Round-trip: token t maps to w ⇔ t ∈ Contents(w).
//   - Immutable: reorderings return a new *Map via Apply(Permutation);
//     no method mutates a constructed Map.
//
// A Map whose two directions disagree would silently corrupt every
// admissibility number computed from it, so consumers call Validate and
// treat ErrInconsistent as fatal.
package lattice
