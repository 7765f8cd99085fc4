// Package winlattice infers a positional lattice over a tokenized corpus:
// a ring of K windows plus a per-line offset, scored by how often each
// token lands within a small drift of where the previous one left the
// cursor.
//
// 🚀 What is in here?
//
//	• Layout: a 2D force-directed embedding of token adjacency evidence
//	• Clustering: K-means over the layout, windows ordered by angle
//	• Traversal: spectral and greedy (optionally 2-opt) window ordering
//	• Schedule: per-line oracle offsets and group/carry offset rules
//	• Selection: MDL-style K sweep with two knee detectors
//	• Robustness: permutation null, cross-transcription, holdout, sections
//
// Packages:
//
//	corpus/        lines, folio metadata, evidence and file readers
//	lattice/       the token→window map and window permutations
//	admissibility/ the shared local-drift metric
//	matrix/        dense matrices, Jacobi eigen, Laplacian and Fiedler vector
//	layout/ cluster/ traversal/ schedule/ selection/ robustness/
//	artifact/      atomic JSON/YAML records under latest/ and runs/<id>/
//	config/        YAML config with WINLATTICE_* overrides
//	pipeline/      the staged end-to-end run
//	cmd/winlattice the command-line entry point
//
// Quick run:
//
//	go run ./cmd/winlattice -config winlattice.yaml -dataset eva
package winlattice
