package dataset

import (
	"log/slog"
	"time"

	"github.com/hupe1980/geoclass/geo"
)

// Item is one training or test record.
type Item struct {
	// ID is the 1-based ordinal of the data line in its file.
	ID int
	// Key is the first column of the line, kept for reference.
	Key string
	// Point is the item location. Only meaningful when Located is set.
	Point   geo.Point
	Located bool
	// Features lists retained feature ids in tag order, repeats included.
	Features []int32
	// Home is the owner's home location hint, if known.
	Home *geo.Point
}

// Stats summarises one pass over an input file.
type Stats struct {
	Lines    int // data lines read, excluding the record-count header
	Parsed   int // lines that parsed
	Errors   int // lines that failed to parse
	Filtered int // parsed lines dropped for lack of retained features
	Items    int // items handed to the consumer
	Duration time.Duration
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Lines += o.Lines
	s.Parsed += o.Parsed
	s.Errors += o.Errors
	s.Filtered += o.Filtered
	s.Items += o.Items
	s.Duration += o.Duration
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("lines", s.Lines),
		slog.Int("parsed", s.Parsed),
		slog.Int("errors", s.Errors),
		slog.Int("filtered", s.Filtered),
		slog.Int("items", s.Items),
		slog.Duration("duration", s.Duration),
	)
}
