package dataset

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/geoclass/geo"
	"github.com/hupe1980/geoclass/internal/pool"
)

// LoadItems reads every item of src into memory, ordered by ID.
func LoadItems(ctx context.Context, p *pool.Pool, src Source) ([]Item, Stats, error) {
	parts := make([][]Item, p.Size())

	stats, err := Scan(ctx, p, src, func(w int) Sink {
		return func(it Item) error {
			parts[w] = append(parts[w], it)
			return nil
		}
	})
	if err != nil {
		return nil, stats, err
	}

	items := slices.Concat(parts...)
	slices.SortFunc(items, func(a, b Item) int { return cmp.Compare(a.ID, b.ID) })
	return items, stats, nil
}

// Medoids is the parsed medoid file.
type Medoids struct {
	Points []geo.Point
	Keys   []string
}

// LoadMedoids reads "key,lat,lon" lines sequentially. Malformed lines are
// counted and skipped; the remaining medoids keep file order.
func LoadMedoids(ctx context.Context, src Source) (Medoids, Stats, error) {
	start := time.Now()
	src.Format = FormatMedoid

	s, err := src.Open(ctx)
	if err != nil {
		return Medoids{}, Stats{}, err
	}
	defer s.Close()

	var (
		m  Medoids
		st Stats
	)
	err = consume(ctx, s, src, &st, func(it Item) error {
		m.Points = append(m.Points, it.Point)
		m.Keys = append(m.Keys, it.Key)
		return nil
	})
	st.Duration = time.Since(start)
	if err != nil {
		return Medoids{}, st, fmt.Errorf("dataset: medoids: %w", err)
	}
	return m, st, nil
}
