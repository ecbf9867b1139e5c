package classmap

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/hupe1980/geoclass/geo"
	"github.com/hupe1980/geoclass/internal/pool"
)

// Class is one medoid class.
type Class struct {
	ID         int // dense id, 0..K-1 in input order
	OriginalID string
	Point      geo.Point
}

// Option configures an Assigner.
type Option func(*Assigner)

// WithLogger sets the logger used to report construction warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assigner) {
		a.logger = l
	}
}

// WithRejectDuplicates makes New fail with ErrDuplicateMedoid instead of
// shadowing medoids that share a position with an earlier one.
func WithRejectDuplicates() Option {
	return func(a *Assigner) {
		a.rejectDuplicates = true
	}
}

// WithOriginalIDs attaches the medoid file's identifiers to the classes.
// ids must have one entry per medoid.
func WithOriginalIDs(ids []string) Option {
	return func(a *Assigner) {
		a.originalIDs = ids
	}
}

// Assigner maps coordinates to the class of their nearest medoid.
//
// The index is built once and never mutated afterwards, so Assign is safe for
// concurrent use without locking.
type Assigner struct {
	classes    []Class
	tree       *kdtree.Tree
	duplicates int

	logger           *slog.Logger
	rejectDuplicates bool
	originalIDs      []string
}

// New builds an Assigner over medoids. Class ids are assigned densely in
// input order.
//
// A medoid whose embedding equals an earlier medoid's keeps its class id but
// is left out of the index: the first-seen medoid wins and the duplicate class
// can never be assigned. The number of shadowed medoids is reported by
// Duplicates.
func New(medoids []geo.Point, opts ...Option) (*Assigner, error) {
	if len(medoids) == 0 {
		return nil, ErrNoMedoids
	}

	a := &Assigner{}
	for _, opt := range opts {
		opt(a)
	}
	if a.originalIDs != nil && len(a.originalIDs) != len(medoids) {
		return nil, fmt.Errorf("classmap: %d original ids for %d medoids", len(a.originalIDs), len(medoids))
	}

	a.classes = make([]Class, len(medoids))
	indexed := make(nodes, 0, len(medoids))
	seen := make(map[[3]float64]int, len(medoids))

	for i, p := range medoids {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: class %d at %s", ErrInvalidMedoid, i, p)
		}

		c := Class{ID: i, Point: p}
		if a.originalIDs != nil {
			c.OriginalID = a.originalIDs[i]
		}
		a.classes[i] = c

		pos := p.Cartesian()
		if first, ok := seen[pos]; ok {
			if a.rejectDuplicates {
				return nil, fmt.Errorf("%w: class %d shares %s with class %d", ErrDuplicateMedoid, i, p, first)
			}
			a.duplicates++
			continue
		}
		seen[pos] = i
		indexed = append(indexed, node{pos: pos, class: i})
	}

	a.tree = kdtree.New(indexed, false)

	if a.duplicates > 0 && a.logger != nil {
		a.logger.Warn("duplicate medoids shadowed",
			"duplicates", a.duplicates,
			"classes", len(a.classes),
			"indexed", len(indexed))
	}

	return a, nil
}

// Assign returns the class id of the medoid nearest to p.
func (a *Assigner) Assign(p geo.Point) int {
	nearest, _ := a.tree.Nearest(node{pos: p.Cartesian()})
	return nearest.(node).class
}

// AssignAll assigns every point in parallel. Points are split into contiguous
// ranges, one per worker, and each worker writes only its own range of the
// result.
func (a *Assigner) AssignAll(ctx context.Context, p *pool.Pool, points []geo.Point) ([]int, error) {
	out := make([]int, len(points))
	ranges := pool.Partition(len(points), p.Size())

	err := p.Run(ctx, len(ranges), func(ctx context.Context, i int) error {
		r := ranges[i]
		for j := r.Begin; j < r.End; j++ {
			out[j] = a.Assign(points[j])
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of classes, including shadowed duplicates.
func (a *Assigner) Len() int { return len(a.classes) }

// Duplicates returns how many medoids were shadowed by an earlier medoid at
// the same position.
func (a *Assigner) Duplicates() int { return a.duplicates }

// Class returns the class with the given dense id.
func (a *Assigner) Class(id int) (Class, bool) {
	if id < 0 || id >= len(a.classes) {
		return Class{}, false
	}
	return a.classes[id], true
}

// Classes returns all classes in id order. The slice must not be modified.
func (a *Assigner) Classes() []Class { return a.classes }

// Medoid returns the coordinate of class id. It panics if id is out of range.
func (a *Assigner) Medoid(id int) geo.Point { return a.classes[id].Point }
