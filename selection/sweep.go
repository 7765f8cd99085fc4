package selection

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/internal/workers"
)

// Sweep builds and prices a lattice for every K in ks, concurrently. The
// returned points are sorted by K; duplicates in ks are priced once.
func Sweep(ctx context.Context, c *corpus.Corpus, b Builder, ks []int, opts ...Option) ([]Point, error) {
	o := options{metric: admissibility.DefaultOptions(), overhead: DefaultOverheadBits}
	for _, fn := range opts {
		fn(&o)
	}
	uniq := make(map[int]bool, len(ks))
	var cand []int
	for _, k := range ks {
		if k < 1 {
			return nil, fmt.Errorf("selection.Sweep: K=%d: %w", k, ErrBadK)
		}
		if !uniq[k] {
			uniq[k] = true
			cand = append(cand, k)
		}
	}
	if len(cand) == 0 {
		return nil, fmt.Errorf("selection.Sweep: %w", ErrNoCandidates)
	}
	sort.Ints(cand)

	points := make([]Point, len(cand))
	err := workers.ForEach(ctx, len(cand), o.workers, func(ctx context.Context, i int) error {
		m, err := b.Build(ctx, c, cand[i])
		if err != nil {
			return fmt.Errorf("K=%d: %w", cand[i], err)
		}
		if err = m.Validate(); err != nil {
			return fmt.Errorf("K=%d: %w", cand[i], err)
		}
		points[i] = Measure(c, m, o.metric, o.overhead)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("selection.Sweep: %w", err)
	}
	return points, nil
}

// Knee selects K from a sweep sorted by K.
//
//   - Chord: the interior point lying furthest below the first–last chord,
//     both axes normalized to [0,1].
//   - SecondDiff: the interior point maximizing L[i-1] − 2·L[i] + L[i+1].
//
// When the detectors disagree the candidate with the lower total cost wins
// (lower K on equal cost). With fewer than three points both detectors
// report the minimum-cost point.
func Knee(points []Point) (KneeResult, error) {
	if len(points) == 0 {
		return KneeResult{}, fmt.Errorf("selection.Knee: %w", ErrNoCandidates)
	}
	pts := append([]Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].K < pts[j].K })

	if len(pts) < 3 {
		best := minCost(pts)
		return KneeResult{K: best.K, Chord: best.K, SecondDiff: best.K, Agree: true}, nil
	}

	chord := chordKnee(pts)
	second := secondDiffKnee(pts)
	res := KneeResult{Chord: pts[chord].K, SecondDiff: pts[second].K, Agree: chord == second}
	switch {
	case res.Agree:
		res.K = res.Chord
	case pts[chord].TotalCost < pts[second].TotalCost:
		res.K = pts[chord].K
	case pts[second].TotalCost < pts[chord].TotalCost:
		res.K = pts[second].K
	default:
		res.K = min(pts[chord].K, pts[second].K)
	}
	return res, nil
}

func chordKnee(pts []Point) int {
	n := len(pts)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		lo, hi = math.Min(lo, p.TotalCost), math.Max(hi, p.TotalCost)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	k0, k1 := float64(pts[0].K), float64(pts[n-1].K)
	y0, y1 := (pts[0].TotalCost-lo)/span, (pts[n-1].TotalCost-lo)/span
	best, bestDev := 1, math.Inf(-1)
	for i := 1; i < n-1; i++ {
		x := (float64(pts[i].K) - k0) / (k1 - k0)
		dev := y0 + (y1-y0)*x - (pts[i].TotalCost-lo)/span
		if dev > bestDev {
			best, bestDev = i, dev
		}
	}
	return best
}

func secondDiffKnee(pts []Point) int {
	best, bestD := 1, math.Inf(-1)
	for i := 1; i < len(pts)-1; i++ {
		d := pts[i-1].TotalCost - 2*pts[i].TotalCost + pts[i+1].TotalCost
		if d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

func minCost(pts []Point) Point {
	best := pts[0]
	for _, p := range pts[1:] {
		if p.TotalCost < best.TotalCost {
			best = p
		}
	}
	return best
}

// Penalty compares an externally fixed K with the selected bestK. The fixed
// choice is justified when it costs at most threshold extra bits per token.
func Penalty(points []Point, fixedK, bestK int, threshold float64) (PenaltyResult, error) {
	var fixed, best *Point
	for i := range points {
		if points[i].K == fixedK {
			fixed = &points[i]
		}
		if points[i].K == bestK {
			best = &points[i]
		}
	}
	if fixed == nil || best == nil {
		return PenaltyResult{}, fmt.Errorf("selection.Penalty: fixed=%d best=%d: %w", fixedK, bestK, ErrUnknownK)
	}
	delta := fixed.BitsPerToken - best.BitsPerToken
	return PenaltyResult{
		FixedK:             fixedK,
		BestK:              bestK,
		DeltaBitsPerToken:  delta,
		DeltaAdmissibility: fixed.Admissibility - best.Admissibility,
		Threshold:          threshold,
		Justified:          delta <= threshold,
	}, nil
}
