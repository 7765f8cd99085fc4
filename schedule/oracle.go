package schedule

import (
	"context"
	"fmt"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/internal/workers"
	"github.com/katalvlaran/winlattice/lattice"
)

// BestOffset returns the offset in [0,K) maximizing the admissible count of
// tokens walked from cursor 0, lowest offset on ties.
func BestOffset(tokens []string, m *lattice.Map, metric admissibility.Options) (int, admissibility.Score) {
	var (
		best   int
		bestS  admissibility.Score
		s      admissibility.Score
		offset int
	)
	for offset = 0; offset < m.K(); offset++ {
		s, _ = admissibility.Walk(tokens, m, metric, offset, 0, nil)
		if offset == 0 || s.Admissible > bestS.Admissible {
			best, bestS = offset, s
		}
	}
	return best, bestS
}

// Oracle runs BestOffset on every line of c. Lines are searched concurrently;
// each worker writes only its own slot.
func Oracle(ctx context.Context, c *corpus.Corpus, m *lattice.Map, opts ...Option) ([]LineResult, error) {
	o := gather(opts)
	if o.metric.Tolerance < 0 {
		return nil, fmt.Errorf("schedule.Oracle: %w", admissibility.ErrBadTolerance)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("schedule.Oracle: %w", err)
	}
	lines := c.Lines()
	out := make([]LineResult, len(lines))
	err := workers.ForEach(ctx, len(lines), o.workers, func(_ context.Context, i int) error {
		off, s := BestOffset(lines[i].Tokens, m, o.metric)
		out[i] = LineResult{Offset: off, Score: s, Mapped: s.Total > 0}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("schedule.Oracle: %w", err)
	}
	return out, nil
}

func gather(opts []Option) options {
	o := options{metric: admissibility.DefaultOptions()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
