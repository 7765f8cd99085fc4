package cluster

import (
	"fmt"

	"github.com/katalvlaran/winlattice/internal/rng"
	"github.com/katalvlaran/winlattice/layout"
)

// Lloyd is the classic assign/update k-means with k-means++ seeding.
type Lloyd struct {
	Seed    int64
	MaxIter int
}

// Fit implements KMeans.
func (l Lloyd) Fit(points []layout.Point, k int) ([]int, []layout.Point, error) {
	if k < 1 {
		return nil, nil, fmt.Errorf("Lloyd.Fit: %w", ErrBadK)
	}
	if len(points) == 0 {
		return nil, nil, fmt.Errorf("Lloyd.Fit: %w", ErrNoPoints)
	}
	maxIter := l.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	centroids := l.seed(points, k)
	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}
	sums := make([]layout.Point, k)
	counts := make([]int, k)
	for it := 0; it < maxIter; it++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		for c := range sums {
			sums[c], counts[c] = layout.Point{}, 0
		}
		for i, p := range points {
			sums[assign[i]].X += p.X
			sums[assign[i]].Y += p.Y
			counts[assign[i]]++
		}
		for c := range centroids {
			if counts[c] > 0 { // empty clusters keep their centroid
				centroids[c] = layout.Point{X: sums[c].X / float64(counts[c]), Y: sums[c].Y / float64(counts[c])}
			}
		}
	}
	return assign, centroids, nil
}

// seed picks k initial centroids by k-means++ (D² sampling).
func (l Lloyd) seed(points []layout.Point, k int) []layout.Point {
	r := rng.FromSeed(l.Seed)
	centroids := make([]layout.Point, 0, k)
	centroids = append(centroids, points[r.Intn(len(points))])
	d2 := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d2[i] = sqDist(p, centroids[nearest(p, centroids)])
			total += d2[i]
		}
		if total == 0 {
			// fewer distinct points than k; duplicate the last centroid
			centroids = append(centroids, centroids[len(centroids)-1])
			continue
		}
		target := r.Float64() * total
		pick := len(points) - 1
		for i, d := range d2 {
			if target < d {
				pick = i
				break
			}
			target -= d
		}
		centroids = append(centroids, points[pick])
	}
	return centroids
}

// nearest returns the closest centroid, lowest id on ties.
func nearest(p layout.Point, centroids []layout.Point) int {
	best, bestD := 0, sqDist(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := sqDist(p, centroids[c]); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func sqDist(a, b layout.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
