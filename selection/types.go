package selection

import (
	"context"
	"errors"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
)

var (
	// ErrNoCandidates indicates an empty candidate list.
	ErrNoCandidates = errors.New("selection: no candidate K")

	// ErrBadK indicates a candidate K < 1.
	ErrBadK = errors.New("selection: K must be >= 1")

	// ErrUnknownK indicates a K absent from the sweep.
	ErrUnknownK = errors.New("selection: K not in sweep")
)

// Builder derives a lattice with k windows from a corpus.
type Builder interface {
	Build(ctx context.Context, c *corpus.Corpus, k int) (*lattice.Map, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, c *corpus.Corpus, k int) (*lattice.Map, error)

// Build implements Builder.
func (f BuilderFunc) Build(ctx context.Context, c *corpus.Corpus, k int) (*lattice.Map, error) {
	return f(ctx, c, k)
}

// Point is one k_sweep record.
type Point struct {
	K             int     `json:"k" yaml:"k"`
	ModelCost     float64 `json:"model_cost" yaml:"model_cost"`
	DataCost      float64 `json:"data_cost" yaml:"data_cost"`
	TotalCost     float64 `json:"total_cost" yaml:"total_cost"`
	BitsPerToken  float64 `json:"bits_per_token" yaml:"bits_per_token"`
	Admissibility float64 `json:"admissibility" yaml:"admissibility"`
}

// KneeResult reports both detectors and the selected K.
type KneeResult struct {
	K          int  `json:"k" yaml:"k"`
	Chord      int  `json:"chord" yaml:"chord"`
	SecondDiff int  `json:"second_diff" yaml:"second_diff"`
	Agree      bool `json:"agree" yaml:"agree"`
}

// PenaltyResult prices a fixed K against the selected one.
type PenaltyResult struct {
	FixedK             int     `json:"fixed_k" yaml:"fixed_k"`
	BestK              int     `json:"best_k" yaml:"best_k"`
	DeltaBitsPerToken  float64 `json:"delta_bits_per_token" yaml:"delta_bits_per_token"`
	DeltaAdmissibility float64 `json:"delta_admissibility" yaml:"delta_admissibility"`
	Threshold          float64 `json:"threshold" yaml:"threshold"`
	Justified          bool    `json:"justified" yaml:"justified"`
}

// Defaults.
const (
	DefaultOverheadBits     = 1.0
	DefaultPenaltyThreshold = 0.1
)

// Option configures Sweep.
type Option func(*options)

type options struct {
	metric   admissibility.Options
	overhead float64
	workers  int
}

// WithMetric sets the admissibility options used to classify hits.
func WithMetric(o admissibility.Options) Option {
	return func(opts *options) { opts.metric = o }
}

// WithOverheadBits sets the per-bucket, per-window model overhead.
func WithOverheadBits(bits float64) Option {
	return func(opts *options) { opts.overhead = bits }
}

// WithWorkers bounds the sweep fan-out. Non-positive means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(opts *options) { opts.workers = n }
}
