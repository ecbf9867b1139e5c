package geoclass

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/nb"
)

// Logger wraps slog.Logger with geoclass-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithBatch adds the batch index and class range to the logger.
func (l *Logger) WithBatch(b nb.Batch) *Logger {
	return &Logger{
		Logger: l.Logger.With("batch", b.Index, "begin", b.Begin, "end", b.End),
	}
}

// WithRun adds the run id to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// LogLoad logs the outcome of loading an input file.
func (l *Logger) LogLoad(ctx context.Context, kind, path string, stats dataset.Stats, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "load failed",
			"kind", kind,
			"path", path,
			"error", err,
		)
	case stats.Errors > 0:
		l.WarnContext(ctx, "load completed with parse errors",
			"kind", kind,
			"path", path,
			"stats", stats,
		)
	default:
		l.InfoContext(ctx, "load completed",
			"kind", kind,
			"path", path,
			"stats", stats,
		)
	}
}

// LogBatch logs the outcome of one batch.
func (l *Logger) LogBatch(ctx context.Context, b nb.Batch, skipped bool, records int, duration time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "batch failed",
			"batch", b.Index,
			"error", err,
		)
	case skipped:
		l.InfoContext(ctx, "batch skipped, result file exists",
			"batch", b.Index,
		)
	default:
		l.InfoContext(ctx, "batch completed",
			"batch", b.Index,
			"classes", b.Size(),
			"records", records,
			"duration", duration,
		)
	}
}

// LogPlan logs the batch plan of a run.
func (l *Logger) LogPlan(ctx context.Context, p Plan) {
	l.InfoContext(ctx, "run planned",
		"classes", p.Classes,
		"features", p.Features,
		"batch_size", p.BatchSize,
		"batches", len(p.Batches),
		"memory_bytes", p.MemoryBytes,
		"table_bytes", p.TableBytes,
		"train_bytes", p.TrainBytes,
	)
}
