package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/internal/rng"
)

type edge struct {
	u, v int
	w    float64
}

// Solver holds ingested evidence. It is not safe for concurrent use; Solve
// itself does not mutate the ingested evidence and may be called repeatedly.
type Solver struct {
	opts   Options
	tokens []string
	edges  []edge
}

// NewSolver returns a Solver configured by opts.
func NewSolver(opts ...Option) *Solver {
	return &Solver{opts: gatherOptions(opts...)}
}

// Tokens returns the vocabulary retained by the last Ingest.
func (s *Solver) Tokens() []string { return s.tokens }

// Edges returns the number of undirected edges retained by the last Ingest.
func (s *Solver) Edges() int { return len(s.edges) }

// Ingest records evidence restricted to the vocabularyCap most frequent
// tokens of c (0 = no cap). When c is nil the vocabulary is ranked by
// weighted evidence degree instead. Reversed and repeated pairs merge into
// one undirected edge; self pairs are dropped.
//
// Errors:
//   - ErrBadCap for a negative cap.
//   - ErrEmptyEvidence when no edge survives.
func (s *Solver) Ingest(evidence []corpus.Evidence, c *corpus.Corpus, vocabularyCap int) error {
	s.tokens, s.edges = nil, nil
	if vocabularyCap < 0 {
		return fmt.Errorf("layout.Ingest: %w", ErrBadCap)
	}
	if len(evidence) == 0 {
		return fmt.Errorf("layout.Ingest: %w", ErrEmptyEvidence)
	}

	var vocab []string
	if c != nil {
		vocab = c.TopTokens(vocabularyCap)
	} else {
		vocab = rankByDegree(evidence, vocabularyCap)
	}
	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
	}

	type key struct{ u, v int }
	merged := make(map[key]float64)
	for _, ev := range evidence {
		u, okU := index[ev.A]
		v, okV := index[ev.B]
		if !okU || !okV || u == v {
			continue
		}
		if u > v {
			u, v = v, u
		}
		w := ev.Weight
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			w = 1
		}
		merged[key{u, v}] += w
	}
	if len(merged) == 0 {
		return fmt.Errorf("layout.Ingest: no edge within the %d-token vocabulary: %w", len(vocab), ErrEmptyEvidence)
	}

	edges := make([]edge, 0, len(merged))
	for k, w := range merged {
		edges = append(edges, edge{u: k.u, v: k.v, w: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].u != edges[j].u {
			return edges[i].u < edges[j].u
		}
		return edges[i].v < edges[j].v
	})
	s.tokens = vocab
	s.edges = edges
	return nil
}

// Solve runs the relaxation for the given number of iterations.
//
// Errors:
//   - ErrBadIterations for iterations <= 0.
//   - ErrEmptyEvidence when Ingest has not retained any edge.
func (s *Solver) Solve(iterations int) (Layout, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("layout.Solve: %w", ErrBadIterations)
	}
	if len(s.edges) == 0 {
		return nil, fmt.Errorf("layout.Solve: %w", ErrEmptyEvidence)
	}

	n := len(s.tokens)
	side := s.opts.side
	half := side / 2
	k := math.Sqrt(side * side / float64(n))
	r := rng.FromSeed(s.opts.seed)

	pos := make([]Point, n)
	for i := range pos {
		pos[i] = Point{X: r.Float64()*side - half, Y: r.Float64()*side - half}
	}
	maxW := 0.0
	for _, e := range s.edges {
		if e.w > maxW {
			maxW = e.w
		}
	}

	disp := make([]Point, n)
	t0 := side / 10
	var (
		i, j, it   int
		dx, dy, d  float64
		force, lim float64
	)
	for it = 0; it < iterations; it++ {
		for i = range disp {
			disp[i] = Point{}
		}
		// repulsion, all pairs
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				dx, dy, d = separation(pos[i], pos[j], i, j)
				force = k * k / d
				disp[i].X += dx / d * force
				disp[i].Y += dy / d * force
				disp[j].X -= dx / d * force
				disp[j].Y -= dy / d * force
			}
		}
		// attraction along evidence
		for _, e := range s.edges {
			dx, dy, d = separation(pos[e.u], pos[e.v], e.u, e.v)
			force = d * d / k * (e.w / maxW)
			disp[e.u].X -= dx / d * force
			disp[e.u].Y -= dy / d * force
			disp[e.v].X += dx / d * force
			disp[e.v].Y += dy / d * force
		}
		// capped move, linear cooling, clamp to the frame
		lim = t0 * (1 - float64(it)/float64(iterations))
		for i = 0; i < n; i++ {
			d = math.Hypot(disp[i].X, disp[i].Y)
			if d < minDistance {
				continue
			}
			step := math.Min(d, lim)
			pos[i].X = clamp(pos[i].X+disp[i].X/d*step, -half, half)
			pos[i].Y = clamp(pos[i].Y+disp[i].Y/d*step, -half, half)
		}
	}

	out := make(Layout, n)
	for i, tok := range s.tokens {
		out[tok] = pos[i]
	}
	return out, nil
}

// separation returns the vector a−b and its length, nudging coincident
// points apart along an index-dependent direction so they can separate.
func separation(a, b Point, i, j int) (float64, float64, float64) {
	dx, dy := a.X-b.X, a.Y-b.Y
	d := math.Hypot(dx, dy)
	if d >= minDistance {
		return dx, dy, d
	}
	angle := float64((i*31+j*17)%360) * math.Pi / 180
	return minDistance * math.Cos(angle), minDistance * math.Sin(angle), minDistance
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// rankByDegree orders evidence tokens by weighted degree (desc, then name).
func rankByDegree(evidence []corpus.Evidence, limit int) []string {
	deg := make(map[string]float64)
	for _, ev := range evidence {
		w := ev.Weight
		if w <= 0 {
			w = 1
		}
		deg[ev.A] += w
		deg[ev.B] += w
	}
	out := make([]string, 0, len(deg))
	for tok := range deg {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool {
		if deg[out[i]] != deg[out[j]] {
			return deg[out[i]] > deg[out[j]]
		}
		return out[i] < out[j]
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// EvidenceFromCorpus derives adjacency evidence from within-line bigrams,
// one record per distinct unordered pair weighted by its count.
func EvidenceFromCorpus(c *corpus.Corpus) []corpus.Evidence {
	type key struct{ a, b string }
	counts := make(map[key]float64)
	for _, ln := range c.Lines() {
		for i := 1; i < len(ln.Tokens); i++ {
			a, b := ln.Tokens[i-1], ln.Tokens[i]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			counts[key{a, b}]++
		}
	}
	out := make([]corpus.Evidence, 0, len(counts))
	for k, w := range counts {
		out = append(out, corpus.Evidence{A: k.a, B: k.b, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}
