package robustness

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/selection"
	"github.com/katalvlaran/winlattice/traversal"
)

// Holdout derives a k-window lattice from trainSection alone and evaluates
// it on the disjoint testSection. Coverage is the fraction of test tokens
// the lattice maps; Generalization is test over train admissibility.
func Holdout(ctx context.Context, c *corpus.Corpus, trainSection, testSection string, b selection.Builder, k int, opts ...Option) (HoldoutResult, error) {
	o := gather(opts)
	if trainSection == testSection {
		return HoldoutResult{}, fmt.Errorf("robustness.Holdout(%s): %w", trainSection, ErrSameSection)
	}
	train, err := c.Section(trainSection)
	if err != nil {
		return HoldoutResult{}, fmt.Errorf("robustness.Holdout: train: %w", err)
	}
	test, err := c.Section(testSection)
	if err != nil {
		return HoldoutResult{}, fmt.Errorf("robustness.Holdout: test: %w", err)
	}
	m, err := b.Build(ctx, train, k)
	if err != nil {
		return HoldoutResult{}, fmt.Errorf("robustness.Holdout: build: %w", err)
	}
	trainScore, err := admissibility.Corpus(train, m, o.metric, nil)
	if err != nil {
		return HoldoutResult{}, fmt.Errorf("robustness.Holdout: %w", err)
	}
	testScore := admissibility.Lines(test.Lines(), m, o.metric, nil, nil)

	res := HoldoutResult{
		Train:      trainSection,
		Test:       testSection,
		K:          k,
		TrainScore: trainScore.Ratio(),
		TestScore:  testScore.Ratio(),
		Coverage:   float64(testScore.Total) / float64(test.TokenCount()),
	}
	if res.TrainScore > 0 {
		res.Generalization = res.TestScore / res.TrainScore
	}
	return res, nil
}

// SectionAware reorders m within each section of c using only that
// section's transitions, and compares the result with m itself.
func SectionAware(c *corpus.Corpus, m *lattice.Map, opts ...Option) (SectionResult, error) {
	o := gather(opts)
	if err := m.Validate(); err != nil {
		return SectionResult{}, fmt.Errorf("robustness.SectionAware: %w", err)
	}
	var res SectionResult
	for _, label := range c.Sections() {
		sub, err := c.Section(label)
		if errors.Is(err, corpus.ErrEmptyCorpus) {
			continue
		}
		if err != nil {
			return SectionResult{}, fmt.Errorf("robustness.SectionAware: %w", err)
		}
		opt, err := traversal.Optimize(sub, m, traversal.WithMetric(o.metric))
		if err != nil {
			return SectionResult{}, fmt.Errorf("robustness.SectionAware(%s): %w", label, err)
		}
		rec := SectionRecord{
			Section: label,
			Global:  opt.Baseline,
			Local:   opt.Score(),
			Adopted: string(opt.Adopted),
		}
		res.Sections = append(res.Sections, rec)
		res.PooledGlobal = res.PooledGlobal.Add(rec.Global)
		res.PooledLocal = res.PooledLocal.Add(rec.Local)
	}
	return res, nil
}
