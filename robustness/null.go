package robustness

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/internal/rng"
	"github.com/katalvlaran/winlattice/internal/workers"
	"github.com/katalvlaran/winlattice/lattice"
)

// Shuffle reassigns the tokens of m to windows at random while keeping
// every window's size. The result depends only on r's state.
func Shuffle(m *lattice.Map, r *rand.Rand) (*lattice.Map, error) {
	tokens := m.Tokens()
	rng.ShuffleStrings(tokens, r)
	assign := make(map[string]int, len(tokens))
	next := 0
	for w, size := range m.Sizes() {
		for _, tok := range tokens[next : next+size] {
			assign[tok] = w
		}
		next += size
	}
	return lattice.New(m.K(), assign)
}

// PermutationNull scores m against size-preserving random reassignments.
// Trial i draws from rng.Stream(seed, i), so results do not depend on the
// worker count. P is the one-sided empirical p-value (ge+1)/(n+1).
//
// Errors:
//   - ErrBadTrials for trials <= 0.
//   - any validation error of m.
func PermutationNull(ctx context.Context, c *corpus.Corpus, m *lattice.Map, opts ...Option) (NullResult, error) {
	o := gather(opts)
	if o.trials <= 0 {
		return NullResult{}, fmt.Errorf("robustness.PermutationNull: %w", ErrBadTrials)
	}
	obs, err := admissibility.Corpus(c, m, o.metric, nil)
	if err != nil {
		return NullResult{}, fmt.Errorf("robustness.PermutationNull: %w", err)
	}

	null := make([]float64, o.trials)
	err = workers.ForEach(ctx, o.trials, o.workers, func(_ context.Context, i int) error {
		shuffled, err := Shuffle(m, rng.Stream(o.seed, uint64(i)))
		if err != nil {
			return err
		}
		null[i] = admissibility.Lines(c.Lines(), shuffled, o.metric, nil, nil).Ratio()
		return nil
	})
	if err != nil {
		return NullResult{}, fmt.Errorf("robustness.PermutationNull: %w", err)
	}
	return summarize(obs.Ratio(), null), nil
}

func summarize(observed float64, null []float64) NullResult {
	n := float64(len(null))
	var mean, sq float64
	ge := 0
	for _, v := range null {
		mean += v
		if v >= observed {
			ge++
		}
	}
	mean /= n
	for _, v := range null {
		sq += (v - mean) * (v - mean)
	}
	std := 0.0
	if len(null) > 1 {
		std = math.Sqrt(sq / (n - 1))
	}
	z := 0.0
	if std > 0 {
		z = (observed - mean) / std
	}
	return NullResult{
		Observed: observed,
		Mean:     mean,
		Std:      std,
		Z:        z,
		P:        float64(ge+1) / (n + 1),
		Trials:   len(null),
		AtLeast:  ge,
	}
}
