// SPDX-License-Identifier: MIT

// Package matrix is the numeric backend of the traversal optimizer: a small
// row-major Dense type, symmetric eigen-decomposition (Jacobi rotations) and
// the graph-Laplacian helpers needed for spectral window ordering.
//
// Purpose:
//   - Keep the eigen backend behind one narrow entry point (EigenSym) so the
//     optimizer never depends on a concrete solver.
//   - Deterministic loop orders everywhere; identical input ⇒ identical output.
//   - Fail fast with sentinel errors; no panics on user input.
//
// Complexity quicksheet:
//   - NewDense O(r*c); At/Set O(1); Symmetrize/Laplacian O(n²);
//     EigenSym O(maxIter·n²) per sweep pivot search (Jacobi).
package matrix
