package lattice_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/winlattice/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomMap assigns v synthetic tokens to k windows.
func randomMap(t *testing.T, seed int64, v, k int) *lattice.Map {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	assign := make(map[string]int, v)
	for i := 0; i < v; i++ {
		assign[fmt.Sprintf("t%03d", i)] = r.Intn(k)
	}
	m, err := lattice.New(k, assign)
	require.NoError(t, err)
	return m
}

// TestMap_RoundTrip checks both directions agree for many random maps.
func TestMap_RoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m := randomMap(t, seed, 50, 1+int(seed%7))
		require.NoError(t, m.Validate())
		for _, tok := range m.Tokens() {
			w, ok := m.Window(tok)
			require.True(t, ok)
			assert.Contains(t, m.Contents(w), tok)
		}
		total := 0
		for w := 0; w < m.K(); w++ {
			for _, tok := range m.Contents(w) {
				got, ok := m.Window(tok)
				require.True(t, ok)
				assert.Equal(t, w, got)
			}
			total += m.Size(w)
		}
		assert.Equal(t, m.Len(), total)
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := lattice.New(0, nil)
	assert.ErrorIs(t, err, lattice.ErrBadK)

	_, err = lattice.New(2, map[string]int{"a": 2})
	assert.ErrorIs(t, err, lattice.ErrInconsistent)
	var ce *lattice.ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "a", ce.Token)
}

func TestFromContents_DuplicateToken(t *testing.T) {
	_, err := lattice.FromContents([][]string{{"a", "b"}, {"b"}})
	assert.ErrorIs(t, err, lattice.ErrInconsistent)

	m, err := lattice.FromContents([][]string{{"b", "a"}, nil, {"c"}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.K())
	assert.Equal(t, []string{"a", "b"}, m.Contents(0))
	assert.Empty(t, m.Contents(1))
}

func TestFromRecords(t *testing.T) {
	fwd := map[string]int{"a": 0, "b": 0, "c": 1}

	m, err := lattice.FromRecords(2, fwd, map[int][]string{0: {"a", "b"}, 1: {"c"}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	_, err = lattice.FromRecords(2, fwd, map[int][]string{0: {"a"}, 1: {"c", "b"}})
	assert.ErrorIs(t, err, lattice.ErrInconsistent, "b listed in the wrong window")

	_, err = lattice.FromRecords(2, fwd, map[int][]string{0: {"a", "b"}})
	assert.ErrorIs(t, err, lattice.ErrInconsistent, "c missing from contents")

	_, err = lattice.FromRecords(2, fwd, map[int][]string{0: {"a", "b", "z"}, 1: {"c"}})
	assert.ErrorIs(t, err, lattice.ErrInconsistent, "z not mapped")
}

func TestApply_IdentityLeavesContentUnchanged(t *testing.T) {
	m := randomMap(t, 7, 40, 5)
	out, err := m.Apply(lattice.Identity(5))
	require.NoError(t, err)
	f1, c1 := m.Records()
	f2, c2 := out.Records()
	assert.Equal(t, f1, f2)
	assert.Equal(t, c1, c2)
}

func TestApply_Permutation(t *testing.T) {
	m, err := lattice.New(3, map[string]int{"a": 0, "b": 1, "c": 2})
	require.NoError(t, err)

	perm, err := lattice.FromOrder([]int{2, 0, 1}) // old 2 first, then 0, then 1
	require.NoError(t, err)
	assert.Equal(t, lattice.Permutation{1, 2, 0}, perm)

	out, err := m.Apply(perm)
	require.NoError(t, err)
	w, _ := out.Window("c")
	assert.Equal(t, 0, w)
	w, _ = out.Window("a")
	assert.Equal(t, 1, w)
	w, _ = m.Window("c")
	assert.Equal(t, 2, w, "receiver must not change")

	_, err = m.Apply(lattice.Permutation{0, 0, 1})
	assert.ErrorIs(t, err, lattice.ErrBadPermutation)
	_, err = lattice.FromOrder([]int{0, 3, 1})
	assert.ErrorIs(t, err, lattice.ErrBadPermutation)
}

func TestPermutation_IsIdentity(t *testing.T) {
	assert.True(t, lattice.Identity(4).IsIdentity())
	assert.False(t, lattice.Permutation{1, 0}.IsIdentity())
}
