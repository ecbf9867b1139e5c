package reference

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/hupe1980/geoclass/classmap"
	"github.com/hupe1980/geoclass/geo"
	"github.com/hupe1980/geoclass/internal/fs"
	"github.com/hupe1980/geoclass/results"
)

// Location is the coordinate assigned to one test item.
type Location struct {
	TestID int
	Point  geo.Point
}

// Stats reports one referencing run.
type Stats struct {
	Records  int
	Duration time.Duration
}

// Option configures a MedoidReferencer.
type Option func(*MedoidReferencer)

// WithFileSystem sets the file system (default fs.Default).
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(r *MedoidReferencer) {
		if fsys != nil {
			r.fs = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *MedoidReferencer) {
		r.logger = l
	}
}

// MedoidReferencer maps global class ids to their medoid coordinates.
type MedoidReferencer struct {
	fs      fs.FileSystem
	classes *classmap.Assigner
	logger  *slog.Logger
}

// NewMedoidReferencer returns a referencer over the classes of a.
func NewMedoidReferencer(a *classmap.Assigner, opts ...Option) *MedoidReferencer {
	r := &MedoidReferencer{fs: fs.Default, classes: a}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locate resolves records to medoid locations sorted by test id.
func (r *MedoidReferencer) Locate(records []results.Record) ([]Location, error) {
	out := make([]Location, 0, len(records))
	for _, rec := range records {
		c, ok := r.classes.Class(rec.Class)
		if !ok {
			return nil, fmt.Errorf("%w: test id %d: class %d not in [0,%d)",
				results.ErrInvariant, rec.TestID, rec.Class, r.classes.Len())
		}
		out = append(out, Location{TestID: rec.TestID, Point: c.Point})
	}
	slices.SortStableFunc(out, func(a, b Location) int { return cmp.Compare(a.TestID, b.TestID) })
	return out, nil
}

// Run reads the merged classification file and writes the locations to
// output atomically.
func (r *MedoidReferencer) Run(ctx context.Context, classification, output string) (Stats, error) {
	start := time.Now()

	f, err := fs.Open(r.fs, classification)
	if err != nil {
		return Stats{}, err
	}
	var records []results.Record
	err = results.Read(f, func(rec results.Record) error {
		records = append(records, rec)
		return ctx.Err()
	})
	_ = f.Close()
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", classification, err)
	}

	locs, err := r.Locate(records)
	if err != nil {
		return Stats{}, err
	}

	if err := fs.WriteAtomic(r.fs, output, func(w io.Writer) error {
		return WriteLocations(w, locs)
	}); err != nil {
		return Stats{}, fmt.Errorf("write %s: %w", output, err)
	}

	stats := Stats{Records: len(locs), Duration: time.Since(start)}
	if r.logger != nil {
		r.logger.Info("locations written", "records", stats.Records, "output", output, "duration", stats.Duration)
	}
	return stats, nil
}

// WriteLocations writes "id lat lon" lines.
func WriteLocations(w io.Writer, locs []Location) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for _, l := range locs {
		buf = strconv.AppendInt(buf[:0], int64(l.TestID), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, l.Point.Lat, 'f', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, l.Point.Lon, 'f', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
