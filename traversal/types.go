package traversal

import (
	"errors"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/lattice"
)

// ErrDegenerate reports that no spectral ordering exists for the matrix.
var ErrDegenerate = errors.New("traversal: numerically degenerate laplacian")

// Strategy names the ordering that Optimize adopted.
type Strategy string

const (
	Original Strategy = "original"
	Spectral Strategy = "spectral"
	Greedy   Strategy = "greedy"
)

// Reasons reported by Optimize.
const (
	ReasonNoReordering  = "no reordering possible"
	ReasonNoImprovement = "no strict improvement over the current order"
	ReasonSpectral      = "spectral order improves admissibility"
	ReasonGreedy        = "greedy tour improves admissibility"
)

// DefaultEigenEps is the λ₂ threshold below which the Laplacian is degenerate.
const DefaultEigenEps = 1e-9

// Result is the outcome of Optimize. Map is the adopted lattice; it equals
// the input map when Adopted is Original.
type Result struct {
	Baseline      admissibility.Score `json:"baseline" yaml:"baseline"`
	Spectral      admissibility.Score `json:"spectral" yaml:"spectral"`
	Greedy        admissibility.Score `json:"greedy" yaml:"greedy"`
	SpectralOrder []int               `json:"spectral_order,omitempty" yaml:"spectral_order,omitempty"`
	GreedyOrder   []int               `json:"greedy_order,omitempty" yaml:"greedy_order,omitempty"`
	Degenerate    bool                `json:"degenerate" yaml:"degenerate"`
	Adopted       Strategy            `json:"adopted" yaml:"adopted"`
	Permutation   lattice.Permutation `json:"permutation" yaml:"permutation"`
	Reason        string              `json:"reason" yaml:"reason"`
	Map           *lattice.Map        `json:"-" yaml:"-"`
}

// Score returns the admissibility of the adopted ordering.
func (r Result) Score() admissibility.Score {
	switch r.Adopted {
	case Spectral:
		return r.Spectral
	case Greedy:
		return r.Greedy
	default:
		return r.Baseline
	}
}

// Option configures Optimize.
type Option func(*options)

type options struct {
	metric admissibility.Options
	eps    float64
	refine bool
}

// WithMetric sets the admissibility options used for scoring; its Cursor
// field also drives BuildTransitions.
func WithMetric(o admissibility.Options) Option {
	return func(opts *options) { opts.metric = o }
}

// WithEigenEps overrides DefaultEigenEps.
func WithEigenEps(eps float64) Option {
	return func(opts *options) { opts.eps = eps }
}

// WithTwoOpt refines the greedy tour with TwoOpt before it is scored.
func WithTwoOpt(on bool) Option {
	return func(opts *options) { opts.refine = on }
}
