package layout

import (
	"errors"
	"sort"
)

var (
	// ErrEmptyEvidence is returned when no adjacency edge survives ingestion.
	ErrEmptyEvidence = errors.New("layout: empty evidence")

	// ErrBadIterations indicates a non-positive iteration count.
	ErrBadIterations = errors.New("layout: iterations must be > 0")

	// ErrBadCap indicates a negative vocabulary cap.
	ErrBadCap = errors.New("layout: vocabulary cap must be >= 0")
)

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Layout is the solver output: Token→(x,y).
type Layout map[string]Point

// Tokens returns the positioned tokens, sorted.
func (l Layout) Tokens() []string {
	out := make([]string, 0, len(l))
	for tok := range l {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Default knobs.
const (
	DefaultSeed       int64 = 1
	DefaultSide             = 1.0
	DefaultIterations       = 200
	DefaultCap              = 400
	minDistance             = 1e-6
)

// Option configures a Solver.
type Option func(*Options)

// Options is the resolved solver configuration.
type Options struct {
	seed int64
	side float64
}

// WithSeed sets the seed of the initial placement. 0 means DefaultSeed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.seed = seed }
}

// WithSide sets the side length of the square frame. It panics on a
// non-positive value (programmer error).
func WithSide(side float64) Option {
	if side <= 0 {
		panic("layout: WithSide: side must be > 0")
	}
	return func(o *Options) { o.side = side }
}

func gatherOptions(opts ...Option) Options {
	o := Options{seed: DefaultSeed, side: DefaultSide}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
