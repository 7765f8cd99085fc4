package selection_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trueK     = 4
	perWindow = 8
	vocab     = trueK * perWindow
)

// windowProcess emits lines that step +1 through trueK windows, drawing a
// member token per step from a fixed pattern. Token tNN lives in window NN/8.
func windowProcess(t *testing.T) *corpus.Corpus {
	t.Helper()
	var lines []corpus.Line
	for l := 0; l < 64; l++ {
		w := l % trueK
		toks := make([]string, 12)
		for p := range toks {
			idx := (l*3 + p*5 + l/4) % perWindow
			toks[p] = fmt.Sprintf("t%02d", w*perWindow+idx)
			w = (w + 1) % trueK
		}
		lines = append(lines, corpus.Line{Folio: fmt.Sprintf("f%dr", 1+l/8), Index: l % 8, Tokens: toks})
	}
	c, err := corpus.New("process", lines, corpus.DefaultFolioTable())
	require.NoError(t, err)
	return c
}

// rebin assigns the i-th vocabulary token (sorted) to window floor(i·K/V).
var rebin = selection.BuilderFunc(func(_ context.Context, c *corpus.Corpus, k int) (*lattice.Map, error) {
	voc := c.Vocabulary()
	assign := make(map[string]int, len(voc))
	for i, tok := range voc {
		assign[tok] = i * k / len(voc)
	}
	return lattice.New(k, assign)
})

func sweepProcess(t *testing.T) []selection.Point {
	t.Helper()
	c := windowProcess(t)
	require.Len(t, c.Vocabulary(), vocab)
	pts, err := selection.Sweep(context.Background(), c, rebin, []int{8, 1, 2, 3, 4, 5, 6, 7, 4})
	require.NoError(t, err)
	return pts
}

func TestSweep_SortedAndPriced(t *testing.T) {
	pts := sweepProcess(t)
	require.Len(t, pts, 8)
	for i, p := range pts {
		assert.Equal(t, i+1, p.K)
		assert.InDelta(t, p.ModelCost+p.DataCost, p.TotalCost, 1e-9)
		assert.InDelta(t, p.TotalCost/(64*12), p.BitsPerToken, 1e-12)
	}
	// K=1: one bucket, zero entropy, overhead 1 bit; every token costs log2 32
	assert.InDelta(t, 1.0, pts[0].ModelCost, 1e-12)
	assert.InDelta(t, 64*12*5.0, pts[0].DataCost, 1e-9)
	assert.Equal(t, 1.0, pts[0].Admissibility)
}

// TestKnee_ScenarioD recovers the generating window count.
func TestKnee_ScenarioD(t *testing.T) {
	knee, err := selection.Knee(sweepProcess(t))
	require.NoError(t, err)
	assert.InDelta(t, trueK, knee.K, 1)
	assert.True(t, knee.Agree)
}

// TestKnee_ScenarioDLayout runs the full layout → cluster path instead of
// the generating assignment.
func TestKnee_ScenarioDLayout(t *testing.T) {
	c := windowProcess(t)
	pts, err := selection.Sweep(context.Background(), c, selection.CorpusBuilder{Seed: 1}, []int{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	knee, err := selection.Knee(pts)
	require.NoError(t, err)
	assert.InDelta(t, trueK, knee.K, 1, "%+v", knee)
}

func TestModelCost_BitIdentical(t *testing.T) {
	c := windowProcess(t)
	m, err := rebin(context.Background(), c, 7)
	require.NoError(t, err)
	want := math.Float64bits(selection.ModelCost(c, m, 1))
	for i := 0; i < 2000; i++ {
		require.Equal(t, want, math.Float64bits(selection.ModelCost(c, m, 1)), "run %d", i)
	}
}

func TestKnee_Disagreement(t *testing.T) {
	costs := []float64{100, 60, 50, 48, 46, 10, 9}
	pts := make([]selection.Point, len(costs))
	for i, c := range costs {
		pts[i] = selection.Point{K: i + 1, TotalCost: c}
	}
	// the chord sees the early drop at K=2; the sharpest bend is at K=6
	knee, err := selection.Knee(pts)
	require.NoError(t, err)
	assert.False(t, knee.Agree)
	assert.Equal(t, 2, knee.Chord)
	assert.Equal(t, 6, knee.SecondDiff)
	assert.Equal(t, 6, knee.K)
}

func TestKnee_FewPoints(t *testing.T) {
	knee, err := selection.Knee([]selection.Point{{K: 3, TotalCost: 5}, {K: 2, TotalCost: 4}})
	require.NoError(t, err)
	assert.Equal(t, 2, knee.K)

	_, err = selection.Knee(nil)
	assert.ErrorIs(t, err, selection.ErrNoCandidates)
}

func TestPenalty(t *testing.T) {
	pts := sweepProcess(t)
	p, err := selection.Penalty(pts, 8, 4, selection.DefaultPenaltyThreshold)
	require.NoError(t, err)
	assert.Greater(t, p.DeltaBitsPerToken, selection.DefaultPenaltyThreshold)
	assert.Less(t, p.DeltaAdmissibility, 0.0)
	assert.False(t, p.Justified)

	p, err = selection.Penalty(pts, 4, 4, selection.DefaultPenaltyThreshold)
	require.NoError(t, err)
	assert.True(t, p.Justified)
	assert.Zero(t, p.DeltaBitsPerToken)

	_, err = selection.Penalty(pts, 99, 4, 0.1)
	assert.ErrorIs(t, err, selection.ErrUnknownK)
}

func TestSweep_Errors(t *testing.T) {
	c := windowProcess(t)
	_, err := selection.Sweep(context.Background(), c, rebin, nil)
	assert.ErrorIs(t, err, selection.ErrNoCandidates)

	_, err = selection.Sweep(context.Background(), c, rebin, []int{0})
	assert.ErrorIs(t, err, selection.ErrBadK)

	boom := errors.New("boom")
	failing := selection.BuilderFunc(func(context.Context, *corpus.Corpus, int) (*lattice.Map, error) {
		return nil, boom
	})
	_, err = selection.Sweep(context.Background(), c, failing, []int{2, 3})
	assert.ErrorIs(t, err, boom)
}

func TestDataCost_UnmappedTokensPayMissPenalty(t *testing.T) {
	c := windowProcess(t)
	m, err := lattice.New(1, map[string]int{"t00": 0})
	require.NoError(t, err)
	bits, s := selection.DataCost(c, m, admissibility.DefaultOptions())
	// t00 always hits a singleton window (0 bits); every other token pays log2 32
	assert.Equal(t, s.Admissible, s.Total)
	assert.InDelta(t, float64(c.TokenCount()-s.Total)*math.Log2(vocab), bits, 1e-9)
}

func TestCorpusBuilder_Builds(t *testing.T) {
	c := windowProcess(t)
	b := selection.CorpusBuilder{Cap: 0, Iterations: 30, Seed: 2, Reorder: true, Metric: admissibility.DefaultOptions()}
	m, err := b.Build(context.Background(), c, 4)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 4, m.K())
	assert.Equal(t, vocab, m.Len())
}
