package traversal_test

import (
	"testing"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/matrix"
	"github.com/katalvlaran/winlattice/traversal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCorpus(t *testing.T, lines ...[]string) *corpus.Corpus {
	t.Helper()
	ls := make([]corpus.Line, len(lines))
	for i, toks := range lines {
		ls[i] = corpus.Line{Folio: "f1r", Index: i, Tokens: toks}
	}
	c, err := corpus.New("traversal", ls, corpus.DefaultFolioTable())
	require.NoError(t, err)
	return c
}

func mustMap(t *testing.T, k int, assign map[string]int) *lattice.Map {
	t.Helper()
	m, err := lattice.New(k, assign)
	require.NoError(t, err)
	return m
}

func TestBuildTransitions_CursorPolicies(t *testing.T) {
	c := newCorpus(t, []string{"a", "b", "a", "c"}, []string{"c", "a", "zz", "b"})
	m := mustMap(t, 2, map[string]int{"a": 0, "b": 0, "c": 1})

	reset, err := traversal.BuildTransitions(c, m, admissibility.ResetPerLine)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 1}, {1, 0}}, reset.ToRows())

	carry, err := traversal.BuildTransitions(c, m, admissibility.CarryAcrossLines)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 1}, {1, 1}}, carry.ToRows())
}

func TestGreedyTour(t *testing.T) {
	sym, err := matrix.FromRows([][]float64{
		{0, 1, 5, 0},
		{1, 0, 0, 4},
		{5, 0, 0, 2},
		{0, 4, 2, 0},
	})
	require.NoError(t, err)
	// degrees 6,5,7,6 → start at 2; 2→0 (5); 0→1 (1); 1→3 (4)
	assert.Equal(t, []int{2, 0, 1, 3}, traversal.GreedyTour(sym))

	zero, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, traversal.GreedyTour(zero))

	// self-transitions count: row sums 5,3,2 start at 0 (off-diagonal alone would pick 1)
	loops, err := matrix.FromRows([][]float64{
		{4, 1, 0},
		{1, 0, 2},
		{0, 2, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, traversal.GreedyTour(loops))
}

func TestSpectralOrder_PathRecovered(t *testing.T) {
	// path 2-0-3-1 hidden behind scrambled ids
	sym, err := matrix.FromRows([][]float64{
		{0, 0, 1, 1},
		{0, 0, 0, 1},
		{1, 0, 0, 0},
		{1, 1, 0, 0},
	})
	require.NoError(t, err)
	order, err := traversal.SpectralOrder(sym, traversal.DefaultEigenEps)
	require.NoError(t, err)
	if order[0] == 2 {
		assert.Equal(t, []int{2, 0, 3, 1}, order)
	} else {
		assert.Equal(t, []int{1, 3, 0, 2}, order)
	}
}

func TestSpectralOrder_Disconnected(t *testing.T) {
	sym, err := matrix.FromRows([][]float64{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	})
	require.NoError(t, err)
	_, err = traversal.SpectralOrder(sym, traversal.DefaultEigenEps)
	assert.ErrorIs(t, err, traversal.ErrDegenerate)
}

// scrambledChain hides the chain t0→t1→…→t5 behind a scrambled window map.
func scrambledChain(t *testing.T) (*corpus.Corpus, *lattice.Map) {
	line := []string{"t0", "t1", "t2", "t3", "t4", "t5"}
	c := newCorpus(t, line, line, line)
	m := mustMap(t, 6, map[string]int{"t0": 3, "t1": 0, "t2": 4, "t3": 1, "t4": 5, "t5": 2})
	return c, m
}

func TestOptimize_RecoversChain(t *testing.T) {
	c, m := scrambledChain(t)
	res, err := traversal.Optimize(c, m)
	require.NoError(t, err)

	assert.Equal(t, admissibility.Score{Admissible: 0, Total: 18}, res.Baseline)
	assert.Equal(t, traversal.Spectral, res.Adopted)
	assert.Equal(t, traversal.ReasonSpectral, res.Reason)
	assert.Equal(t, 1.0, res.Spectral.Ratio())
	assert.Equal(t, res.Spectral, res.Score())
	assert.False(t, res.Degenerate)
	require.NoError(t, res.Permutation.Validate(6))
	require.NoError(t, res.Map.Validate())

	// the adopted map is the input map pushed through the permutation
	want, err := m.Apply(res.Permutation)
	require.NoError(t, err)
	wantFwd, _ := want.Records()
	gotFwd, _ := res.Map.Records()
	assert.Equal(t, wantFwd, gotFwd)

	// consecutive chain tokens land on adjacent windows
	for i := 1; i < 6; i++ {
		a, _ := res.Map.Window(c.Lines()[0].Tokens[i-1])
		b, _ := res.Map.Window(c.Lines()[0].Tokens[i])
		assert.Equal(t, 1, admissibility.RingDistance(a, b, 6))
	}
}

func TestOptimize_NoTransitions(t *testing.T) {
	c := newCorpus(t, []string{"a"}, []string{"b", "zz"})
	m := mustMap(t, 3, map[string]int{"a": 1, "b": 2})
	res, err := traversal.Optimize(c, m)
	require.NoError(t, err)
	assert.Equal(t, traversal.ReasonNoReordering, res.Reason)
	assert.Equal(t, traversal.Original, res.Adopted)
	assert.True(t, res.Permutation.IsIdentity())
	assert.Same(t, m, res.Map)
}

func TestOptimize_AlreadyOptimal(t *testing.T) {
	line := []string{"a", "b", "c", "d"}
	c := newCorpus(t, line, line)
	m := mustMap(t, 4, map[string]int{"a": 0, "b": 1, "c": 2, "d": 3})
	res, err := traversal.Optimize(c, m)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Baseline.Ratio())
	assert.Equal(t, traversal.Original, res.Adopted)
	assert.Equal(t, traversal.ReasonNoImprovement, res.Reason)
	assert.Same(t, m, res.Map)
}

func TestOptimize_DegenerateFallsBackToGreedy(t *testing.T) {
	// two disconnected pairs: {a,b} and {c,d}, scattered over the ring
	c := newCorpus(t, []string{"a", "b", "a", "b"}, []string{"c", "d", "c", "d"})
	m := mustMap(t, 6, map[string]int{"a": 0, "b": 3, "c": 1, "d": 4})
	res, err := traversal.Optimize(c, m, traversal.WithMetric(admissibility.Options{Tolerance: 1}))
	require.NoError(t, err)
	assert.True(t, res.Degenerate)
	assert.Nil(t, res.SpectralOrder)
	assert.Equal(t, admissibility.Score{}, res.Spectral)
	assert.Equal(t, traversal.Greedy, res.Adopted)
	assert.Greater(t, res.Greedy.Admissible, res.Baseline.Admissible)
}

func TestTwoOpt(t *testing.T) {
	// heavy ring 0-2-1-3-0; the identity tour walks only two heavy edges
	sym, err := matrix.FromRows([][]float64{
		{0, 0, 5, 5},
		{0, 0, 5, 5},
		{5, 5, 0, 0},
		{5, 5, 0, 0},
	})
	require.NoError(t, err)
	in := []int{0, 1, 2, 3}
	assert.Equal(t, []int{0, 2, 1, 3}, traversal.TwoOpt(sym, in))
	assert.Equal(t, []int{0, 1, 2, 3}, in, "input untouched")

	// an optimal greedy tour is left as is
	greedy, err := matrix.FromRows([][]float64{
		{0, 1, 5, 0},
		{1, 0, 0, 4},
		{5, 0, 0, 2},
		{0, 4, 2, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1, 3}, traversal.TwoOpt(greedy, traversal.GreedyTour(greedy)))

	small, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, traversal.TwoOpt(small, []int{2, 1, 0}))
}

func TestOptimize_TwoOptKeepsDegenerateFallback(t *testing.T) {
	c := newCorpus(t, []string{"a", "b", "a", "b"}, []string{"c", "d", "c", "d"})
	m := mustMap(t, 6, map[string]int{"a": 0, "b": 3, "c": 1, "d": 4})
	res, err := traversal.Optimize(c, m,
		traversal.WithMetric(admissibility.Options{Tolerance: 1}),
		traversal.WithTwoOpt(true))
	require.NoError(t, err)
	assert.True(t, res.Degenerate)
	assert.Len(t, res.GreedyOrder, 6)
	assert.GreaterOrEqual(t, res.Greedy.Admissible, res.Baseline.Admissible)
}
