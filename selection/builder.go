package selection

import (
	"context"
	"fmt"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/cluster"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/layout"
	"github.com/katalvlaran/winlattice/traversal"
)

// LayoutBuilder clusters one precomputed layout at every K and, when
// Reorder is set, adopts the traversal optimizer's ordering.
type LayoutBuilder struct {
	Layout  layout.Layout
	Seed    int64
	Reorder bool
	Metric  admissibility.Options
}

// Build implements Builder.
func (b LayoutBuilder) Build(_ context.Context, c *corpus.Corpus, k int) (*lattice.Map, error) {
	m, err := cluster.Cluster(b.Layout, k, cluster.WithSeed(b.Seed))
	if err != nil {
		return nil, err
	}
	if !b.Reorder {
		return m, nil
	}
	res, err := traversal.Optimize(c, m, traversal.WithMetric(b.Metric))
	if err != nil {
		return nil, err
	}
	return res.Map, nil
}

// CorpusBuilder solves a fresh layout from the corpus handed to Build, so
// nothing outside that corpus leaks into the lattice. Evidence, when set,
// replaces the corpus bigrams.
type CorpusBuilder struct {
	Evidence   []corpus.Evidence
	Cap        int
	Iterations int
	Seed       int64
	Reorder    bool
	Metric     admissibility.Options
}

// Build implements Builder.
func (b CorpusBuilder) Build(ctx context.Context, c *corpus.Corpus, k int) (*lattice.Map, error) {
	ev := b.Evidence
	if ev == nil {
		ev = layout.EvidenceFromCorpus(c)
	}
	s := layout.NewSolver(layout.WithSeed(b.Seed))
	if err := s.Ingest(ev, c, b.Cap); err != nil {
		return nil, fmt.Errorf("CorpusBuilder: %w", err)
	}
	iters := b.Iterations
	if iters <= 0 {
		iters = layout.DefaultIterations
	}
	lay, err := s.Solve(iters)
	if err != nil {
		return nil, fmt.Errorf("CorpusBuilder: %w", err)
	}
	return LayoutBuilder{Layout: lay, Seed: b.Seed, Reorder: b.Reorder, Metric: b.Metric}.Build(ctx, c, k)
}
