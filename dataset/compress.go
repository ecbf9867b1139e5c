package dataset

import (
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/geoclass/internal/fs"
	"github.com/hupe1980/geoclass/internal/resource"
)

// Compression identifies the codec of an input file.
type Compression uint8

const (
	// CompressionNone reads the file as plain text.
	CompressionNone Compression = iota
	// CompressionGzip reads .gz files.
	CompressionGzip
	// CompressionZstd reads .zst files.
	CompressionZstd
	// CompressionLZ4 reads .lz4 frame files.
	CompressionLZ4
	// CompressionBzip2 reads .bz2 files, the format of the public dumps.
	CompressionBzip2
)

// CompressionFor picks the codec from the file extension.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	case ".bz2":
		return CompressionBzip2
	default:
		return CompressionNone
	}
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

// Open opens path for reading, throttled by rc and decompressed according to
// its extension. Throttling applies to the bytes read from disk.
func Open(ctx context.Context, fsys fs.FileSystem, path string, rc *resource.Controller) (io.ReadCloser, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fs.Open(fsys, path)
	if err != nil {
		return nil, err
	}

	out := &readCloser{closers: []func() error{f.Close}}
	raw := resource.NewRateLimitedReader(ctx, f, rc)

	switch CompressionFor(path) {
	case CompressionNone:
		out.Reader = raw
	case CompressionGzip:
		zr, err := gzip.NewReader(raw)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("dataset: gzip %s: %w", path, err)
		}
		out.Reader = zr
		out.closers = append(out.closers, zr.Close)
	case CompressionZstd:
		zr, err := zstd.NewReader(raw, zstd.WithDecoderConcurrency(1))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("dataset: zstd %s: %w", path, err)
		}
		out.Reader = zr
		out.closers = append(out.closers, func() error { zr.Close(); return nil })
	case CompressionLZ4:
		out.Reader = lz4.NewReader(raw)
	case CompressionBzip2:
		out.Reader = bzip2.NewReader(raw)
	}

	return out, nil
}
