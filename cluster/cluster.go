package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/layout"
)

// Cluster assigns every finite-positioned token of lay to one of k windows.
// Tokens with NaN or infinite coordinates are left unmapped.
//
// Errors:
//   - ErrBadK for k < 1.
//   - ErrNoPoints when no token has finite coordinates.
//   - any error of the KMeans backend.
func Cluster(lay layout.Layout, k int, opts ...Option) (*lattice.Map, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster.Cluster: %w", ErrBadK)
	}
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.backend == nil {
		o.backend = Lloyd{Seed: o.seed, MaxIter: o.maxIter}
	}

	tokens := make([]string, 0, len(lay))
	for _, tok := range lay.Tokens() {
		p := lay[tok]
		if finite(p.X) && finite(p.Y) {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("cluster.Cluster: %w", ErrNoPoints)
	}

	// distinct coordinates, first-seen order over sorted tokens
	var (
		distinct []layout.Point
		slot     = make(map[layout.Point]int)
		tokSlot  = make([]int, len(tokens))
	)
	for i, tok := range tokens {
		p := lay[tok]
		s, ok := slot[p]
		if !ok {
			s = len(distinct)
			slot[p] = s
			distinct = append(distinct, p)
		}
		tokSlot[i] = s
	}

	var (
		assign    []int
		centroids []layout.Point
		err       error
	)
	if k >= len(distinct) {
		assign = make([]int, len(distinct))
		centroids = make([]layout.Point, len(distinct))
		for i, p := range distinct {
			assign[i], centroids[i] = i, p
		}
	} else {
		assign, centroids, err = o.backend.Fit(distinct, k)
		if err != nil {
			return nil, fmt.Errorf("cluster.Cluster: %w", err)
		}
	}

	renum := polarOrder(distinct, assign, centroids, k)
	members := make([][]string, k)
	for i, tok := range tokens {
		w := renum[assign[tokSlot[i]]]
		members[w] = append(members[w], tok)
	}
	return lattice.FromContents(members)
}

// polarOrder returns old→new window ids: occupied windows sorted by the
// angle of their centroid around the barycentre of points (counter-clockwise
// from +x; ties by radius, then old id), empty windows after them.
func polarOrder(points []layout.Point, assign []int, centroids []layout.Point, k int) []int {
	var bx, by float64
	for _, p := range points {
		bx += p.X
		by += p.Y
	}
	bx /= float64(len(points))
	by /= float64(len(points))

	used := make([]bool, k)
	for _, c := range assign {
		used[c] = true
	}
	type win struct {
		id            int
		used          bool
		angle, radius float64
	}
	wins := make([]win, k)
	for c := 0; c < k; c++ {
		wins[c] = win{id: c, used: used[c]}
		if used[c] {
			dx, dy := centroids[c].X-bx, centroids[c].Y-by
			a := math.Atan2(dy, dx)
			if a < 0 {
				a += 2 * math.Pi
			}
			wins[c].angle, wins[c].radius = a, math.Hypot(dx, dy)
		}
	}
	sort.SliceStable(wins, func(i, j int) bool {
		a, b := wins[i], wins[j]
		if a.used != b.used {
			return a.used
		}
		if !a.used {
			return a.id < b.id
		}
		if a.angle != b.angle {
			return a.angle < b.angle
		}
		if a.radius != b.radius {
			return a.radius < b.radius
		}
		return a.id < b.id
	})
	renum := make([]int, k)
	for pos, w := range wins {
		renum[w.id] = pos
	}
	return renum
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
