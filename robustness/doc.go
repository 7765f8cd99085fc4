// Package robustness stress-tests a lattice against chance and against the
// data it was derived from.
//
//   - PermutationNull: shuffles tokens across windows (window sizes kept)
//     and locates the real admissibility in the null distribution.
//   - CrossTranscription: re-scores the lattice on independent
//     transcriptions and compares each with the reference source.
//   - Holdout: derives a lattice on one section, evaluates it on another.
//   - SectionAware: reorders windows per section and compares with the
//     single global ordering.
//
// Negative or inconclusive findings are results, never errors.
package robustness
