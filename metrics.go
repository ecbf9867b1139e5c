package geoclass

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/geoclass/dataset"
)

// MetricsCollector defines an interface for collecting run metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prom for a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after an input file has been read.
	// kind is one of "medoids", "test" or "training".
	RecordLoad(kind string, stats dataset.Stats, err error)

	// RecordBatch is called after each batch. skipped is true when the
	// batch result file already existed.
	RecordBatch(batch int, skipped bool, duration time.Duration, err error)

	// RecordMerge is called after the batch files have been merged.
	RecordMerge(batches, records int, duration time.Duration, err error)

	// RecordMemory reports the reserved and peak table memory in bytes.
	RecordMemory(inUse, peak int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(string, dataset.Stats, error)     {}
func (NoopMetricsCollector) RecordBatch(int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordMerge(int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordMemory(int64, int64)                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LinesRead       atomic.Int64
	ParseErrors     atomic.Int64
	BatchCount      atomic.Int64
	BatchSkipped    atomic.Int64
	BatchErrors     atomic.Int64
	BatchTotalNanos atomic.Int64
	MergeCount      atomic.Int64
	MergeErrors     atomic.Int64
	MergedRecords   atomic.Int64
	MemoryInUse     atomic.Int64
	MemoryPeak      atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(kind string, stats dataset.Stats, err error) {
	b.LoadCount.Add(1)
	b.LinesRead.Add(int64(stats.Lines))
	b.ParseErrors.Add(int64(stats.Errors))
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(batch int, skipped bool, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchTotalNanos.Add(duration.Nanoseconds())
	if skipped {
		b.BatchSkipped.Add(1)
	}
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// RecordMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMerge(batches, records int, duration time.Duration, err error) {
	b.MergeCount.Add(1)
	b.MergedRecords.Add(int64(records))
	if err != nil {
		b.MergeErrors.Add(1)
	}
}

// RecordMemory implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMemory(inUse, peak int64) {
	b.MemoryInUse.Store(inUse)
	for {
		cur := b.MemoryPeak.Load()
		if peak <= cur || b.MemoryPeak.CompareAndSwap(cur, peak) {
			return
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LinesRead:     b.LinesRead.Load(),
		ParseErrors:   b.ParseErrors.Load(),
		BatchCount:    b.BatchCount.Load(),
		BatchSkipped:  b.BatchSkipped.Load(),
		BatchErrors:   b.BatchErrors.Load(),
		BatchAvgNanos: b.getAvgBatchNanos(),
		MergeCount:    b.MergeCount.Load(),
		MergeErrors:   b.MergeErrors.Load(),
		MergedRecords: b.MergedRecords.Load(),
		MemoryInUse:   b.MemoryInUse.Load(),
		MemoryPeak:    b.MemoryPeak.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBatchNanos() int64 {
	count := b.BatchCount.Load() - b.BatchSkipped.Load()
	if count <= 0 {
		return 0
	}
	return b.BatchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount     int64
	LoadErrors    int64
	LinesRead     int64
	ParseErrors   int64
	BatchCount    int64
	BatchSkipped  int64
	BatchErrors   int64
	BatchAvgNanos int64
	MergeCount    int64
	MergeErrors   int64
	MergedRecords int64
	MemoryInUse   int64
	MemoryPeak    int64
}
