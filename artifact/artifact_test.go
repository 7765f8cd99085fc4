package artifact_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/winlattice/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepPoint struct {
	K     int     `json:"k" yaml:"k"`
	Total float64 `json:"total_cost" yaml:"total_cost"`
}

func fixedClock() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func TestWriteRead_LatestAndRunScoped(t *testing.T) {
	for _, name := range []string{"k_sweep.json", "nested/k_sweep.yaml", "k_sweep.yml"} {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			w, err := artifact.NewWriter(root, artifact.WithRunID("run-1"), artifact.WithClock(fixedClock))
			require.NoError(t, err)

			in := []sweepPoint{{K: 2, Total: 10.5}, {K: 3, Total: 9}}
			path, err := w.Write(name, in)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(root, artifact.LatestDir, filepath.FromSlash(name)), path)
			assert.FileExists(t, filepath.Join(root, artifact.RunsDir, "run-1", filepath.FromSlash(name)))

			r := artifact.NewReader(root)
			var got []sweepPoint
			env, err := r.Read(name, &got)
			require.NoError(t, err)
			assert.Equal(t, in, got)
			assert.Equal(t, "run-1", env.RunID)
			assert.True(t, env.GeneratedAt.Equal(fixedClock()))

			var again []sweepPoint
			_, err = r.ReadRun("run-1", name, &again)
			require.NoError(t, err)
			assert.Equal(t, in, again)

			// no temp files left behind
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".tmp-")
			}
		})
	}
}

func TestWrite_LatestOverwrittenRunsKept(t *testing.T) {
	root := t.TempDir()
	first, err := artifact.NewWriter(root)
	require.NoError(t, err)
	second, err := artifact.NewWriter(root)
	require.NoError(t, err)
	require.NotEqual(t, first.RunID(), second.RunID())

	_, err = first.Write("permutation.json", []int{1, 0})
	require.NoError(t, err)
	_, err = second.Write("permutation.json", []int{0, 1})
	require.NoError(t, err)

	r := artifact.NewReader(root)
	var latest, old []int
	_, err = r.Read("permutation.json", &latest)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, latest)
	_, err = r.ReadRun(first.RunID(), "permutation.json", &old)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, old)
}

func TestRead_Missing(t *testing.T) {
	root := t.TempDir()
	var v map[string]int
	_, err := artifact.NewReader(root).Read("lattice_map.json", &v)

	var missing *artifact.MissingArtifactError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, filepath.Join(root, artifact.LatestDir, "lattice_map.json"), missing.Path)
	assert.ErrorIs(t, err, artifact.ErrMissing)
}

func TestWrite_BadPaths(t *testing.T) {
	w, err := artifact.NewWriter(t.TempDir())
	require.NoError(t, err)
	for _, p := range []string{"", "../escape.json", "/abs.json", "."} {
		_, err = w.Write(p, 1)
		assert.ErrorIs(t, err, artifact.ErrBadPath, p)
	}
	_, err = w.Write("record.txt", 1)
	assert.ErrorIs(t, err, artifact.ErrUnknownFormat)

	_, err = artifact.NewWriter(" ")
	assert.ErrorIs(t, err, artifact.ErrBadPath)
}
