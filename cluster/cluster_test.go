package cluster_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/winlattice/cluster"
	"github.com/katalvlaran/winlattice/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blobs() layout.Layout {
	lay := layout.Layout{}
	for i := 0; i < 5; i++ {
		d := float64(i) * 0.01
		lay[fmt.Sprintf("l%d", i)] = layout.Point{X: -1 + d, Y: -d}
		lay[fmt.Sprintf("r%d", i)] = layout.Point{X: 1 - d, Y: d}
	}
	return lay
}

func TestCluster_SeparatesBlobs(t *testing.T) {
	m, err := cluster.Cluster(blobs(), 2, cluster.WithSeed(5))
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 2, m.K())

	l0, _ := m.Window("l0")
	r0, _ := m.Window("r0")
	assert.NotEqual(t, l0, r0)
	for i := 1; i < 5; i++ {
		w, ok := m.Window(fmt.Sprintf("l%d", i))
		require.True(t, ok)
		assert.Equal(t, l0, w)
		w, _ = m.Window(fmt.Sprintf("r%d", i))
		assert.Equal(t, r0, w)
	}
	// the right blob (angle ~0) comes first around the barycentre
	assert.Equal(t, 0, r0)
}

func TestCluster_Deterministic(t *testing.T) {
	lay := layout.Layout{}
	for i := 0; i < 40; i++ {
		a := float64(i) * 0.37
		lay[fmt.Sprintf("t%02d", i)] = layout.Point{X: math.Cos(a) * float64(i%7), Y: math.Sin(a) * float64(i%5)}
	}
	first, err := cluster.Cluster(lay, 6, cluster.WithSeed(11))
	require.NoError(t, err)
	second, err := cluster.Cluster(lay, 6, cluster.WithSeed(11))
	require.NoError(t, err)
	f1, c1 := first.Records()
	f2, c2 := second.Records()
	assert.Equal(t, f1, f2)
	assert.Equal(t, c1, c2)
}

func TestCluster_KAtLeastDistinctPoints(t *testing.T) {
	lay := layout.Layout{
		"e": {X: 1, Y: 0},
		"n": {X: 0, Y: 1},
		"w": {X: -1, Y: 0},
		"s": {X: 0, Y: -1},
	}
	m, err := cluster.Cluster(lay, 4)
	require.NoError(t, err)
	for w, want := range []string{"e", "n", "w", "s"} {
		assert.Equal(t, []string{want}, m.Contents(w))
	}

	m, err = cluster.Cluster(lay, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1, 1, 0, 0}, m.Sizes())
}

func TestCluster_CoincidentTokensShareWindow(t *testing.T) {
	lay := layout.Layout{"a": {X: 0, Y: 0}, "b": {X: 0, Y: 0}, "c": {X: 2, Y: 2}}
	m, err := cluster.Cluster(lay, 3)
	require.NoError(t, err)
	wa, _ := m.Window("a")
	wb, _ := m.Window("b")
	assert.Equal(t, wa, wb)
	assert.Equal(t, 3, m.K())
}

func TestCluster_SingleWindow(t *testing.T) {
	m, err := cluster.Cluster(blobs(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, m.Sizes())
}

func TestCluster_Errors(t *testing.T) {
	_, err := cluster.Cluster(blobs(), 0)
	assert.ErrorIs(t, err, cluster.ErrBadK)

	_, err = cluster.Cluster(layout.Layout{"a": {X: math.NaN(), Y: 0}}, 2)
	assert.ErrorIs(t, err, cluster.ErrNoPoints)

	_, _, err = cluster.Lloyd{}.Fit(nil, 2)
	assert.ErrorIs(t, err, cluster.ErrNoPoints)
}

type fixedBackend struct{ calls int }

func (f *fixedBackend) Fit(points []layout.Point, k int) ([]int, []layout.Point, error) {
	f.calls++
	assign := make([]int, len(points))
	return assign, make([]layout.Point, k), nil
}

func TestCluster_CustomBackend(t *testing.T) {
	b := &fixedBackend{}
	m, err := cluster.Cluster(blobs(), 3, cluster.WithBackend(b))
	require.NoError(t, err)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, []int{10, 0, 0}, m.Sizes())
}
