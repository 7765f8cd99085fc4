// Package layout embeds tokens in the plane from pairwise adjacency evidence.
//
// The solver is a Fruchterman–Reingold force-directed relaxation:
//
//	repel:   every pair pushes apart with force k²/d
//	attract: every evidence edge pulls together with force w·d²/k
//	cool:    the step cap (temperature) decays linearly to zero
//
// where k = sqrt(area/n) and w is the edge weight normalized to (0,1].
//
// Usage:
//
//	s := layout.NewSolver(layout.WithSeed(7))
//	if err := s.Ingest(evidence, c, 300); err != nil { ... }
//	lay, err := s.Solve(200)
//
// Reproducibility: identical evidence, cap, iterations and seed produce an
// identical layout (fixed token order, fixed edge order, seeded start).
//
// Complexity: O(iterations · (n² + E)) time, O(n + E) memory.
package layout
