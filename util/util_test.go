package util

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
	assert.Len(t, GetKeys(m), 3)
}

func TestMinMaxClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(2, Min(2, 5))
	assert.Equal(5, Max(2, 5))
	assert.Equal(1.5, Clamp(1.5, 0, 3))
	assert.Equal(3.0, Clamp(9.0, 0, 3))
	assert.Equal(-3.0, Clamp(math.Inf(-1), -3, 3))
}

func TestSumAndFilterZeros(t *testing.T) {
	assert.Equal(t, uint64(6), Sum([]int{1, 2, 3}))
	assert.Equal(t, []uint8{4, 9}, FilterZeros([]uint8{0, 4, 0, 9}))
}

func TestGatherSamplePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"a.csv", "b.CSV", "notes.txt", "nested/c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	paths, err := GatherSamplePaths(dir, 0)
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	paths, err = GatherSamplePaths(dir, 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = GatherSamplePaths(filepath.Join(dir, "missing"), 0)
	assert.Error(t, err)

	paths, err = GatherPaths(filepath.Join(dir, "notes.txt"), ".txt", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, paths)
}

func TestRecreateOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, RecreateOutputDir(dir, false))
	stale := filepath.Join(dir, "stale.mid")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	require.NoError(t, RecreateOutputDir(dir, false))
	assert.FileExists(t, stale)

	require.NoError(t, RecreateOutputDir(dir, true))
	assert.NoFileExists(t, stale)
	assert.DirExists(t, dir)
}
