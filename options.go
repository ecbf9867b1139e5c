package geoclass

import (
	"log/slog"

	"github.com/hupe1980/geoclass/codec"
	"github.com/hupe1980/geoclass/internal/fs"
)

type options struct {
	fs               fs.FileSystem
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	keepBatchFiles   bool
	rejectDuplicates bool
	chunkLines       int
	mergeConcurrency int
}

// Option configures a Classifier.
type Option func(*options)

// WithCodec configures the codec used for the run manifest.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithFileSystem configures the file system used for every input and output.
// Tests use it to inject faults.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithKeepBatchFiles leaves the per-batch result files and the manifest in
// place after a successful merge.
func WithKeepBatchFiles() Option {
	return func(o *options) {
		o.keepBatchFiles = true
	}
}

// WithRejectDuplicateMedoids fails New when two medoids share a position
// instead of shadowing the later one.
func WithRejectDuplicateMedoids() Option {
	return func(o *options) {
		o.rejectDuplicates = true
	}
}

// WithChunkLines sets how many corpus lines a reader claims at once.
func WithChunkLines(n int) Option {
	return func(o *options) {
		o.chunkLines = n
	}
}

// WithMergeConcurrency bounds how many batch files are read in parallel
// during the merge.
func WithMergeConcurrency(n int) Option {
	return func(o *options) {
		o.mergeConcurrency = n
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &geoclass.BasicMetricsCollector{}
//	c, _ := geoclass.New(ctx, params, geoclass.WithMetricsCollector(metrics))
//	// ... c.Run(ctx) ...
//	stats := metrics.GetStats()
//	fmt.Printf("Batches: %d, skipped: %d\n", stats.BatchCount, stats.BatchSkipped)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := geoclass.NewJSONLogger(slog.LevelInfo)
//	c, _ := geoclass.New(ctx, params, geoclass.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		fs:               fs.Default,
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
