package results

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoclass/internal/fs"
)

func writeBatch(t *testing.T, classification string, index int, recs ...Record) string {
	t.Helper()
	path := BatchPath(classification, index)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, recs))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func readAll(t *testing.T, path string) []Record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []Record
	require.NoError(t, Read(f, func(r Record) error {
		out = append(out, r)
		return nil
	}))
	return out
}

func TestBatchPath(t *testing.T) {
	assert.Equal(t, "out/class.txt.3", BatchPath("out/class.txt", 3))
	assert.Equal(t, "out/class.txt.manifest.json", ManifestPath("out/class.txt"))
}

func TestMerge_GlobalClassIDs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "classification.txt")

	// Five classes in batches of two: (2,2,1).
	paths := []string{
		writeBatch(t, out, 0, Record{1, 1, -9, 2}, Record{2, 0, -1, 1}),
		writeBatch(t, out, 1, Record{2, 1, -5, 1}, Record{1, 0, -7, 2}),
		writeBatch(t, out, 2, Record{1, 0, -3, 2}, Record{2, 0, -1, 1}),
	}

	m := NewMerger(2, 5)
	stats, err := m.Merge(context.Background(), paths, out)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Batches)
	assert.Equal(t, 2, stats.Records)

	got := readAll(t, out)
	assert.Equal(t, []Record{
		{TestID: 1, Class: 4, Score: -3, FeatureCount: 2},
		// Equal scores keep the lowest batch.
		{TestID: 2, Class: 0, Score: -1, FeatureCount: 1},
	}, got)

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, errors.Is(err, os.ErrNotExist), p)
	}
}

func TestMerge_KeepInputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "c.txt")
	paths := []string{writeBatch(t, out, 0, Record{1, 0, -1, 1})}

	_, err := NewMerger(1, 1, WithKeepInputs(), WithConcurrency(1)).Merge(context.Background(), paths, out)
	require.NoError(t, err)
	assert.FileExists(t, paths[0])
}

func TestMerge_IDSetMismatch(t *testing.T) {
	tests := []struct {
		name  string
		other []Record
		want  MismatchError
	}{
		{
			name:  "missing id",
			other: []Record{{1, 0, -1, 1}},
			want:  MismatchError{Batch: 1, Want: 2, Got: 1, Missing: 1, Extra: 0, FirstBad: 2},
		},
		{
			name:  "same size different ids",
			other: []Record{{1, 0, -1, 1}, {3, 0, -1, 1}},
			want:  MismatchError{Batch: 1, Want: 2, Got: 2, Missing: 1, Extra: 1, FirstBad: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "c.txt")
			paths := []string{
				writeBatch(t, out, 0, Record{1, 0, -1, 1}, Record{2, 0, -1, 1}),
				writeBatch(t, out, 1, tt.other...),
			}

			_, err := NewMerger(2, 4).Merge(context.Background(), paths, out)
			require.ErrorIs(t, err, ErrBatchMismatch)

			var mm *MismatchError
			require.ErrorAs(t, err, &mm)
			assert.Equal(t, tt.want, *mm)

			assert.NoFileExists(t, out)
			for _, p := range paths {
				assert.FileExists(t, p)
			}
		})
	}
}

func TestMergeSets_Invariants(t *testing.T) {
	set := func(batch int, recs ...Record) *Set {
		s, err := NewSet(batch, recs)
		require.NoError(t, err)
		return s
	}

	t.Run("global id beyond class count", func(t *testing.T) {
		m := NewMerger(2, 3)
		_, err := m.MergeSets([]*Set{
			set(0, Record{1, 0, -9, 1}),
			set(1, Record{1, 1, -1, 1}),
		})
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("local id beyond batch size", func(t *testing.T) {
		_, err := NewMerger(2, 10).MergeSets([]*Set{set(0, Record{1, 2, -1, 1})})
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := NewSet(0, []Record{{1, 0, -1, 1}, {1, 0, -2, 1}})
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("negative id", func(t *testing.T) {
		_, err := NewSet(0, []Record{{-1, 0, -1, 1}})
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := NewMerger(2, 3).MergeSets(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMerge_Errors(t *testing.T) {
	t.Run("missing batch file", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "c.txt")
		_, err := NewMerger(1, 1).Merge(context.Background(), []string{BatchPath(out, 0)}, out)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("failed write keeps batch files", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "c.txt")
		paths := []string{writeBatch(t, out, 0, Record{1, 0, -1, 1})}

		ffs := fs.NewFaultyFS(nil)
		ffs.AddRule("c.txt.tmp", fs.Fault{FailAfterBytes: 0})

		_, err := NewMerger(1, 1, WithFileSystem(ffs)).Merge(context.Background(), paths, out)
		assert.ErrorIs(t, err, fs.ErrInjected)
		assert.NoFileExists(t, out)
		assert.FileExists(t, paths[0])
	})
}
