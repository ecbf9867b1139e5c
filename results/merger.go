package results

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/geoclass/internal/fs"
)

// DefaultMergeConcurrency bounds the number of batch files read at once.
const DefaultMergeConcurrency = 4

// Merger reduces per-batch result files to one record per test item.
type Merger struct {
	fs          fs.FileSystem
	batchSize   int
	classCount  int
	concurrency int
	keepInputs  bool
	logger      *slog.Logger
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithFileSystem sets the file system (default fs.Default).
func WithFileSystem(fsys fs.FileSystem) MergerOption {
	return func(m *Merger) {
		if fsys != nil {
			m.fs = fsys
		}
	}
}

// WithConcurrency sets how many batch files are loaded in parallel.
func WithConcurrency(n int) MergerOption {
	return func(m *Merger) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithKeepInputs leaves the batch files in place after a successful merge.
func WithKeepInputs() MergerOption {
	return func(m *Merger) {
		m.keepInputs = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) MergerOption {
	return func(m *Merger) {
		m.logger = l
	}
}

// NewMerger returns a Merger for batches of batchSize over classCount classes.
func NewMerger(batchSize, classCount int, opts ...MergerOption) *Merger {
	m := &Merger{
		fs:          fs.Default,
		batchSize:   batchSize,
		classCount:  classCount,
		concurrency: DefaultMergeConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MergeStats reports one merge.
type MergeStats struct {
	Batches  int
	Records  int
	Duration time.Duration
}

// Merge loads batchPaths (index = batch number), merges them and writes out
// atomically. The batch files are deleted once out is in place.
func (m *Merger) Merge(ctx context.Context, batchPaths []string, out string) (MergeStats, error) {
	start := time.Now()
	stats := MergeStats{Batches: len(batchPaths)}

	sets := make([]*Set, len(batchPaths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, path := range batchPaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := LoadSet(m.fs, path, i)
			if err != nil {
				return fmt.Errorf("load batch %d: %w", i, err)
			}
			sets[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	merged, err := m.MergeSets(sets)
	if err != nil {
		return stats, err
	}

	if err := fs.WriteAtomic(m.fs, out, func(w io.Writer) error {
		return Write(w, merged)
	}); err != nil {
		return stats, fmt.Errorf("write %s: %w", out, err)
	}
	stats.Records = len(merged)

	if !m.keepInputs {
		for _, path := range batchPaths {
			if err := m.fs.Remove(path); err != nil {
				return stats, fmt.Errorf("remove %s: %w", path, err)
			}
		}
	}

	stats.Duration = time.Since(start)
	if m.logger != nil {
		m.logger.Info("batches merged",
			"batches", stats.Batches,
			"records", stats.Records,
			"output", out,
			"duration", stats.Duration)
	}
	return stats, nil
}

// MergeSets picks, per test id, the highest scoring record across sets and
// maps its class to the global id local + batch*batchSize. Ties keep the
// lowest batch. All sets must hold the same test ids.
func (m *Merger) MergeSets(sets []*Set) ([]Record, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	ref := sets[0]
	for _, s := range sets[1:] {
		if err := s.compare(ref); err != nil {
			return nil, err
		}
	}

	merged := make([]Record, ref.Len())
	for i := range merged {
		best := -1
		for b, s := range sets {
			if best < 0 || s.Records[i].Score > sets[best].Records[i].Score {
				best = b
			}
		}

		r := sets[best].Records[i]
		global, err := m.global(sets[best].Batch, r)
		if err != nil {
			return nil, err
		}
		r.Class = global
		merged[i] = r
	}
	return merged, nil
}

func (m *Merger) global(batch int, r Record) (int, error) {
	if r.Class < 0 || r.Class >= m.batchSize {
		return 0, fmt.Errorf("%w: test id %d: local class %d outside batch %d of size %d",
			ErrInvariant, r.TestID, r.Class, batch, m.batchSize)
	}
	g := r.Class + batch*m.batchSize
	if g >= m.classCount {
		return 0, fmt.Errorf("%w: test id %d: class %d (batch %d, local %d) >= class count %d",
			ErrInvariant, r.TestID, g, batch, r.Class, m.classCount)
	}
	return g, nil
}
