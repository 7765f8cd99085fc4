package cluster

import (
	"errors"

	"github.com/katalvlaran/winlattice/layout"
)

var (
	// ErrNoPoints indicates a layout without any finite coordinate.
	ErrNoPoints = errors.New("cluster: no usable points")

	// ErrBadK indicates K < 1.
	ErrBadK = errors.New("cluster: K must be >= 1")
)

// KMeans partitions points into k groups. assign[i] is in [0,k) and
// centroids has length k. Implementations must be deterministic for a fixed
// input and must break assignment ties towards the lowest group id.
type KMeans interface {
	Fit(points []layout.Point, k int) (assign []int, centroids []layout.Point, err error)
}

// DefaultMaxIter bounds Lloyd iterations.
const DefaultMaxIter = 300

// Option configures Cluster.
type Option func(*options)

type options struct {
	backend KMeans
	seed    int64
	maxIter int
}

// WithSeed seeds the default Lloyd backend.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithMaxIter bounds the default Lloyd backend. Non-positive means DefaultMaxIter.
func WithMaxIter(n int) Option {
	return func(o *options) { o.maxIter = n }
}

// WithBackend replaces the k-means implementation.
func WithBackend(b KMeans) Option {
	return func(o *options) { o.backend = b }
}
