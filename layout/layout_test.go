package layout_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New("chain", []corpus.Line{
		{Folio: "f1r", Tokens: []string{"a", "b", "c", "d", "e"}},
		{Folio: "f1r", Index: 1, Tokens: []string{"a", "b", "c", "d", "e"}},
		{Folio: "f1v", Tokens: []string{"e", "d", "c", "b", "a"}},
		{Folio: "f2r", Tokens: []string{"x", "y", "x", "y"}},
	}, corpus.DefaultFolioTable())
	require.NoError(t, err)
	return c
}

func TestEvidenceFromCorpus_MergesReversedPairs(t *testing.T) {
	ev := layout.EvidenceFromCorpus(chainCorpus(t))
	byPair := make(map[[2]string]float64)
	for _, e := range ev {
		assert.Less(t, e.A, e.B)
		byPair[[2]string{e.A, e.B}] = e.Weight
	}
	assert.Equal(t, 3.0, byPair[[2]string{"a", "b"}])
	assert.Equal(t, 3.0, byPair[[2]string{"x", "y"}])
	assert.Len(t, ev, 5)
}

func TestSolve_Deterministic(t *testing.T) {
	c := chainCorpus(t)
	ev := layout.EvidenceFromCorpus(c)

	run := func(seed int64) layout.Layout {
		s := layout.NewSolver(layout.WithSeed(seed))
		require.NoError(t, s.Ingest(ev, c, 0))
		lay, err := s.Solve(100)
		require.NoError(t, err)
		return lay
	}
	first := run(7)
	assert.Equal(t, first, run(7))
	assert.Len(t, first, len(c.Vocabulary()))
	for _, p := range first {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
		assert.LessOrEqual(t, math.Abs(p.X), layout.DefaultSide/2)
		assert.LessOrEqual(t, math.Abs(p.Y), layout.DefaultSide/2)
	}
}

func TestSolve_NeighboursCloserThanStrangers(t *testing.T) {
	c := chainCorpus(t)
	ev := []corpus.Evidence{
		{A: "a", B: "b", Weight: 10},
		{A: "c", B: "d", Weight: 10},
		{A: "b", B: "c", Weight: 0.1},
	}
	s := layout.NewSolver(layout.WithSeed(3))
	require.NoError(t, s.Ingest(ev, c, 4))
	lay, err := s.Solve(300)
	require.NoError(t, err)

	dist := func(u, v string) float64 {
		return math.Hypot(lay[u].X-lay[v].X, lay[u].Y-lay[v].Y)
	}
	assert.Less(t, dist("a", "b"), dist("a", "d"))
	assert.Less(t, dist("c", "d"), dist("a", "d"))
}

func TestIngest_CapAndEmptyEvidence(t *testing.T) {
	c := chainCorpus(t)
	s := layout.NewSolver()

	err := s.Ingest(nil, c, 0)
	assert.ErrorIs(t, err, layout.ErrEmptyEvidence)

	// only a self pair and a pair outside the cap remain
	err = s.Ingest([]corpus.Evidence{{A: "a", B: "a"}, {A: "a", B: "zzz"}}, c, 2)
	assert.ErrorIs(t, err, layout.ErrEmptyEvidence)

	_, err = s.Solve(10)
	assert.ErrorIs(t, err, layout.ErrEmptyEvidence)

	assert.ErrorIs(t, s.Ingest(layout.EvidenceFromCorpus(c), c, -1), layout.ErrBadCap)

	// cap keeps the top tokens by frequency, ties lexicographic
	require.NoError(t, s.Ingest(layout.EvidenceFromCorpus(c), c, 3))
	assert.Equal(t, []string{"a", "b", "c"}, s.Tokens())
	assert.Equal(t, 2, s.Edges())

	_, err = s.Solve(0)
	assert.ErrorIs(t, err, layout.ErrBadIterations)
}

func TestIngest_NilCorpusRanksByDegree(t *testing.T) {
	s := layout.NewSolver()
	require.NoError(t, s.Ingest([]corpus.Evidence{
		{A: "p", B: "q", Weight: 5},
		{A: "q", B: "r", Weight: 1},
	}, nil, 2))
	assert.Equal(t, []string{"q", "p"}, s.Tokens())
}
