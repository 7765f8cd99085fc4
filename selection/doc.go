// Package selection chooses the window count K by two-part code length.
//
// For every candidate K, Sweep builds a lattice through a Builder and prices
// it as
//
//	L(model) = Σ_b n_b · H_b(window id) + OverheadBits · K   per bucket b
//	L(data)  = Σ_tokens  log2|window| on a hit, log2 V otherwise
//
// where buckets group vocabulary tokens by floor(log2 frequency) and a hit is
// an admissible step of the zero-offset walk. Knee runs two detectors on the
// (K, L) curve; Penalty prices an externally fixed K against the selection.
package selection
