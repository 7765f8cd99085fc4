// Package traversal reorders lattice windows so that the most frequent
// window-to-window moves become short steps on the ring.
//
// Pipeline:
//  1. BuildTransitions counts consecutive mapped-token pairs into a K×K
//     matrix, one cursor walking the lines under a CursorPolicy.
//  2. The counts are symmetrized (A + Aᵀ).
//  3. SpectralOrder sorts windows by the Fiedler vector of the Laplacian.
//  4. GreedyTour chains windows by heaviest remaining edge.
//  5. Optimize scores both candidate orders with the admissibility metric
//     and adopts the better strict improvement over the current order.
//
// A numerically degenerate Laplacian (disconnected transitions, failed
// eigen iteration) is reported as ErrDegenerate by SpectralOrder; Optimize
// recovers from it by evaluating the greedy tour alone.
package traversal
