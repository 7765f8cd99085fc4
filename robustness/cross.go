package robustness

import (
	"context"
	"fmt"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/lattice"
)

// CrossTranscription scores m on every source at the configured tolerance
// and at tolerance+1, relates each to the reference source and runs a
// permutation null per source. The mean ratio is taken over the
// non-reference sources (1 when the reference is alone).
func CrossTranscription(ctx context.Context, sources []Source, reference string, m *lattice.Map, opts ...Option) (CrossResult, error) {
	o := gather(opts)
	res := CrossResult{Reference: reference, Threshold: o.threshold}

	refAt := -1
	for i, src := range sources {
		if src.Name == reference {
			refAt = i
		}
	}
	if refAt < 0 {
		return CrossResult{}, fmt.Errorf("robustness.CrossTranscription(%s): %w", reference, ErrNoReference)
	}

	extended := o.metric
	extended.Tolerance++
	for _, src := range sources {
		base, err := admissibility.Corpus(src.Corpus, m, o.metric, nil)
		if err != nil {
			return CrossResult{}, fmt.Errorf("robustness.CrossTranscription(%s): %w", src.Name, err)
		}
		ext := admissibility.Lines(src.Corpus.Lines(), m, extended, nil, nil)
		null, err := PermutationNull(ctx, src.Corpus, m, opts...)
		if err != nil {
			return CrossResult{}, fmt.Errorf("robustness.CrossTranscription(%s): %w", src.Name, err)
		}
		res.Sources = append(res.Sources, SourceRecord{
			Source:        src.Name,
			Admissibility: base.Ratio(),
			Extended:      ext.Ratio(),
			Z:             null.Z,
			P:             null.P,
			Tokens:        src.Corpus.TokenCount(),
		})
	}

	ref := res.Sources[refAt].Admissibility
	var sum float64
	others := 0
	for i := range res.Sources {
		if ref > 0 {
			res.Sources[i].Ratio = res.Sources[i].Admissibility / ref
		}
		if i != refAt {
			sum += res.Sources[i].Ratio
			others++
		}
	}
	if others == 0 {
		res.MeanRatio = res.Sources[refAt].Ratio
	} else {
		res.MeanRatio = sum / float64(others)
	}
	res.SourceIndependent = res.MeanRatio >= o.threshold
	return res, nil
}
