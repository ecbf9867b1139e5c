package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoclass/classmap"
	"github.com/hupe1980/geoclass/geo"
	"github.com/hupe1980/geoclass/results"
	"github.com/hupe1980/geoclass/testutil"
)

func newAssigner(t *testing.T) *classmap.Assigner {
	t.Helper()
	a, err := classmap.New([]geo.Point{{Lat: 0, Lon: 0}, {Lat: 10, Lon: 10}, {Lat: 50.5, Lon: -3.25}})
	require.NoError(t, err)
	return a
}

func TestMedoidReferencer_Run(t *testing.T) {
	dir := t.TempDir()
	classification := testutil.WriteLines(t, dir, "c.txt",
		"3\t2\t-1.5\t2",
		"1\t0\t-4\t1",
		"2\t1\t-Inf\t0",
	)
	out := filepath.Join(dir, "locations.txt")

	stats, err := NewMedoidReferencer(newAssigner(t)).Run(context.Background(), classification, out)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Records)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1 0 0\n2 10 10\n3 50.5 -3.25\n", string(data))
}

func TestMedoidReferencer_UnknownClass(t *testing.T) {
	r := NewMedoidReferencer(newAssigner(t))
	_, err := r.Locate([]results.Record{{TestID: 1, Class: 3}})
	assert.ErrorIs(t, err, results.ErrInvariant)

	_, err = r.Locate([]results.Record{{TestID: 1, Class: -1}})
	assert.ErrorIs(t, err, results.ErrInvariant)
}

func TestMedoidReferencer_Errors(t *testing.T) {
	dir := t.TempDir()
	r := NewMedoidReferencer(newAssigner(t))

	_, err := r.Run(context.Background(), filepath.Join(dir, "missing"), filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := testutil.WriteLines(t, dir, "bad.txt", "1 0 0")
	_, err = r.Run(context.Background(), bad, filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, results.ErrMalformed)
	assert.NoFileExists(t, filepath.Join(dir, "out"))
}
