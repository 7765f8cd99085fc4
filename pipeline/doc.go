// Package pipeline runs the stages end to end:
//
//	load → layout → sweep → cluster → traversal → schedule → robustness
//
// Each stage logs through slog, prints one status line
//
//	stage=<name> status=<ok|error> key=value ...
//
// and persists its record through the artifact writer before the next
// stage starts. Unfavorable findings are persisted like any other.
//
// RunFromLattice reads lattice_map and window_contents back from an earlier
// run and replays only the stages downstream of the lattice:
//
//	load → lattice → schedule → robustness
package pipeline
