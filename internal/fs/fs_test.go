package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	ok, err := Exists(lfs, fpath)
	require.NoError(t, err)
	assert.True(t, ok)

	newPath := filepath.Join(dir, "renamed.txt")
	assert.NoError(t, lfs.Rename(fpath, newPath))

	assert.NoError(t, lfs.Remove(newPath))
	ok, err = Exists(lfs, newPath)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteAtomic(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "out", "result")

	err := WriteAtomic(Default, path, func(w io.Writer) error {
		_, err := io.WriteString(w, "1\t0\t-1.5\t2\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\t0\t-1.5\t2\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not survive")
}

func TestWriteAtomic_WriterError(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "result")
	boom := errors.New("boom")

	err := WriteAtomic(Default, path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()

	t.Run("write limit", func(t *testing.T) {
		ffs := NewFaultyFS(LocalFS{})
		ffs.AddRule("faulty.txt", Fault{FailAfterBytes: 5})

		f, err := ffs.OpenFile(filepath.Join(tmp, "faulty.txt"), os.O_CREATE|os.O_RDWR, 0644)
		require.NoError(t, err)
		defer f.Close()

		n, err := f.Write([]byte("hello"))
		assert.NoError(t, err)
		assert.Equal(t, 5, n)

		_, err = f.Write([]byte("!"))
		assert.ErrorIs(t, err, ErrInjected)
	})

	t.Run("unmatched files pass through", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("other", Fault{FailOnOpen: true})

		f, err := ffs.OpenFile(filepath.Join(tmp, "plain.txt"), os.O_CREATE|os.O_RDWR, 0644)
		require.NoError(t, err)
		_, err = f.Write([]byte("data"))
		assert.NoError(t, err)
		assert.NoError(t, f.Close())
	})

	t.Run("sync and close", func(t *testing.T) {
		custom := errors.New("disk gone")
		ffs := NewFaultyFS(nil)
		ffs.AddRule("sync.txt", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true, Err: custom})

		f, err := ffs.OpenFile(filepath.Join(tmp, "sync.txt"), os.O_CREATE|os.O_RDWR, 0644)
		require.NoError(t, err)
		assert.ErrorIs(t, f.Sync(), custom)
		assert.ErrorIs(t, f.Close(), custom)
	})

	t.Run("atomic write leaves nothing behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "batch.0")
		ffs := NewFaultyFS(nil)
		ffs.AddRule("batch.0", Fault{FailAfterBytes: -1, FailOnRename: true})

		err := WriteAtomic(ffs, path, func(w io.Writer) error {
			_, err := io.WriteString(w, "1\t0\t0\t0\n")
			return err
		})
		assert.ErrorIs(t, err, ErrInjected)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
