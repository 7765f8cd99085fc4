package lattice

import (
	"fmt"
	"sort"
)

// Map is the LatticeMap: a total function Token→Window plus its inverse.
type Map struct {
	k        int
	window   map[string]int
	contents [][]string // sorted member tokens per window
}

// New builds a Map from a forward assignment. The inverse is derived, so
// the result is consistent by construction.
//
// Errors:
//   - ErrBadK if k <= 0.
//   - *ConsistencyError if some window id is outside [0,k).
func New(k int, assign map[string]int) (*Map, error) {
	if k <= 0 {
		return nil, fmt.Errorf("lattice.New: %w", ErrBadK)
	}
	m := &Map{
		k:        k,
		window:   make(map[string]int, len(assign)),
		contents: make([][]string, k),
	}
	for tok, w := range assign {
		if w < 0 || w >= k {
			return nil, &ConsistencyError{Token: tok, Window: w, Reason: "window outside [0,K)"}
		}
		m.window[tok] = w
		m.contents[w] = append(m.contents[w], tok)
	}
	for w := range m.contents {
		sort.Strings(m.contents[w])
	}
	return m, nil
}

// FromContents builds a Map from window member lists. A token listed in
// two windows violates single-valuedness and yields a *ConsistencyError.
func FromContents(contents [][]string) (*Map, error) {
	if len(contents) == 0 {
		return nil, fmt.Errorf("lattice.FromContents: %w", ErrBadK)
	}
	assign := make(map[string]int)
	for w, members := range contents {
		for _, tok := range members {
			if prev, dup := assign[tok]; dup {
				return nil, &ConsistencyError{Token: tok, Window: w,
					Reason: fmt.Sprintf("also listed in window %d", prev)}
			}
			assign[tok] = w
		}
	}
	return New(len(contents), assign)
}

// FromRecords rebuilds a Map from its two persisted directions and checks
// that they agree in both directions.
func FromRecords(k int, latticeMap map[string]int, windowContents map[int][]string) (*Map, error) {
	m, err := New(k, latticeMap)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(latticeMap))
	for w, members := range windowContents {
		if w < 0 || w >= k {
			if len(members) > 0 {
				return nil, &ConsistencyError{Token: members[0], Window: w, Reason: "window outside [0,K)"}
			}
			continue
		}
		for _, tok := range members {
			got, ok := latticeMap[tok]
			if !ok {
				return nil, &ConsistencyError{Token: tok, Window: w, Reason: "listed in contents but not mapped"}
			}
			if got != w {
				return nil, &ConsistencyError{Token: tok, Window: w,
					Reason: fmt.Sprintf("mapped to window %d", got)}
			}
			seen[tok] = true
		}
	}
	for tok, w := range latticeMap {
		if !seen[tok] {
			return nil, &ConsistencyError{Token: tok, Window: w, Reason: "mapped but missing from contents"}
		}
	}
	return m, nil
}

// K returns the number of windows.
func (m *Map) K() int { return m.k }

// Len returns the number of mapped tokens.
func (m *Map) Len() int { return len(m.window) }

// Window returns the window of tok and whether tok is mapped.
func (m *Map) Window(tok string) (int, bool) {
	w, ok := m.window[tok]
	return w, ok
}

// Contents returns the sorted members of window w. The slice is shared;
// callers must not mutate it. Out-of-range w yields nil.
func (m *Map) Contents(w int) []string {
	if w < 0 || w >= m.k {
		return nil
	}
	return m.contents[w]
}

// Size returns the member count of window w.
func (m *Map) Size(w int) int { return len(m.Contents(w)) }

// Sizes returns the member count of every window.
func (m *Map) Sizes() []int {
	out := make([]int, m.k)
	for w := range m.contents {
		out[w] = len(m.contents[w])
	}
	return out
}

// Tokens returns all mapped tokens, sorted.
func (m *Map) Tokens() []string {
	out := make([]string, 0, len(m.window))
	for tok := range m.window {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Validate re-checks the round-trip invariant.
// Complexity: O(V).
func (m *Map) Validate() error {
	if m == nil || m.k <= 0 || len(m.contents) != m.k {
		return fmt.Errorf("lattice.Validate: %w", ErrBadK)
	}
	count := 0
	for w, members := range m.contents {
		for _, tok := range members {
			got, ok := m.window[tok]
			if !ok || got != w {
				return &ConsistencyError{Token: tok, Window: w, Reason: "contents disagree with forward map"}
			}
			count++
		}
	}
	if count != len(m.window) {
		for tok, w := range m.window {
			if w < 0 || w >= m.k {
				return &ConsistencyError{Token: tok, Window: w, Reason: "window outside [0,K)"}
			}
		}
		return &ConsistencyError{Window: -1, Reason: "forward map and contents differ in size"}
	}
	return nil
}

// Apply returns a new Map with every window id w replaced by perm[w].
// The receiver is left untouched.
func (m *Map) Apply(perm Permutation) (*Map, error) {
	if err := perm.Validate(m.k); err != nil {
		return nil, fmt.Errorf("lattice.Apply: %w", err)
	}
	assign := make(map[string]int, len(m.window))
	for tok, w := range m.window {
		assign[tok] = perm[w]
	}
	return New(m.k, assign)
}

// Records returns the two persisted directions: lattice_map and window_contents.
func (m *Map) Records() (map[string]int, map[int][]string) {
	fwd := make(map[string]int, len(m.window))
	for tok, w := range m.window {
		fwd[tok] = w
	}
	inv := make(map[int][]string, m.k)
	for w, members := range m.contents {
		cp := make([]string, len(members))
		copy(cp, members)
		inv[w] = cp
	}
	return fwd, inv
}
