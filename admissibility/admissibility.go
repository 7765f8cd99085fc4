package admissibility

import (
	"fmt"

	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
)

// Mod returns x mod k in [0,k).
func Mod(x, k int) int {
	r := x % k
	if r < 0 {
		r += k
	}
	return r
}

// RingDistance returns min(|a−b|, K−|a−b|) for window ids on a ring of k.
func RingDistance(a, b, k int) int {
	d := Mod(a-b, k)
	if k-d < d {
		return k - d
	}
	return d
}

// Step tests one token with window w against the cursor.
// It returns the next cursor and whether the token was admissible.
func Step(cursor, w, offset, k, tol int, rec RecoveryPolicy) (int, bool) {
	target := Mod(cursor+offset, k)
	hit := RingDistance(w, target, k) <= tol
	if hit || rec == SnapOnMiss {
		return w, hit
	}
	return cursor, false
}

// Walk scores one token stream starting from cursor and returns the score
// and the final cursor. visit may be nil.
func Walk(tokens []string, m *lattice.Map, opts Options, offset, cursor int, visit Visitor) (Score, int) {
	var (
		s   Score
		k   = m.K()
		w   int
		ok  bool
		hit bool
	)
	for _, tok := range tokens {
		if w, ok = m.Window(tok); !ok {
			continue
		}
		cursor, hit = Step(cursor, w, offset, k, opts.Tolerance, opts.Recovery)
		s.Total++
		if hit {
			s.Admissible++
		}
		if visit != nil {
			visit(tok, w, hit)
		}
	}
	return s, cursor
}

// Stream scores a single token stream with the cursor at 0.
func Stream(tokens []string, m *lattice.Map, opts Options, offset int) Score {
	s, _ := Walk(tokens, m, opts, offset, 0, nil)
	return s
}

// Lines scores lines in order, honoring opts.Cursor at line boundaries.
// offset may be nil (zero offset everywhere). visit may be nil.
// The map is not validated; use Corpus at stage boundaries.
func Lines(lines []corpus.Line, m *lattice.Map, opts Options, offset OffsetFunc, visit Visitor) Score {
	if offset == nil {
		offset = ZeroOffset
	}
	var (
		total  Score
		s      Score
		cursor int
	)
	for i, ln := range lines {
		if opts.Cursor == ResetPerLine {
			cursor = 0
		}
		s, cursor = Walk(ln.Tokens, m, opts, offset(i), cursor, visit)
		total = total.Add(s)
	}
	return total
}

// Corpus validates m and scores every line of c.
//
// Errors:
//   - ErrBadTolerance for a negative tolerance.
//   - lattice.ErrInconsistent (via *lattice.ConsistencyError) for a corrupt map.
func Corpus(c *corpus.Corpus, m *lattice.Map, opts Options, offset OffsetFunc) (Score, error) {
	if opts.Tolerance < 0 {
		return Score{}, fmt.Errorf("admissibility.Corpus: %w", ErrBadTolerance)
	}
	if err := m.Validate(); err != nil {
		return Score{}, fmt.Errorf("admissibility.Corpus: %w", err)
	}
	return Lines(c.Lines(), m, opts, offset, nil), nil
}
