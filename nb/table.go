package nb

import (
	"context"
	"fmt"

	"github.com/hupe1980/geoclass/internal/pool"
	"github.com/hupe1980/geoclass/results"
)

// CountTable holds raw occurrence counts of one batch.
//
// It is a dense (classes+1) x (features+1) matrix: row `classes` aggregates
// the whole corpus and column `features` holds each row's total.
type CountTable struct {
	classes  int
	features int
	cells    []float64
}

// NewCountTable allocates a zeroed table.
func NewCountTable(classes, features int) *CountTable {
	return &CountTable{
		classes:  classes,
		features: features,
		cells:    make([]float64, (classes+1)*(features+1)),
	}
}

// Classes returns the number of class rows, excluding the aggregate row.
func (t *CountTable) Classes() int { return t.classes }

// Features returns the feature count F.
func (t *CountTable) Features() int { return t.features }

func (t *CountTable) check(class int, feature int32) error {
	if t.cells == nil {
		return ErrConsumed
	}
	if class < 0 || class > t.classes {
		return fmt.Errorf("%w: class row %d outside [0,%d]", results.ErrInvariant, class, t.classes)
	}
	if feature < 0 || int(feature) >= t.features {
		return fmt.Errorf("%w: feature %d outside [0,%d)", results.ErrInvariant, feature, t.features)
	}
	return nil
}

// Add adds n occurrences of feature to a class row and its total.
func (t *CountTable) Add(class int, feature int32, n float64) error {
	if err := t.check(class, feature); err != nil {
		return err
	}
	row := class * (t.features + 1)
	t.cells[row+int(feature)] += n
	t.cells[row+t.features] += n
	return nil
}

// AddCorpus adds n occurrences of feature to the aggregate row.
func (t *CountTable) AddCorpus(feature int32, n float64) error {
	return t.Add(t.classes, feature, n)
}

// Count returns the count of feature in class. Use Classes() as class to
// read the aggregate row and Features() as feature to read a row total.
func (t *CountTable) Count(class, feature int) (float64, error) {
	if t.cells == nil {
		return 0, ErrConsumed
	}
	if class < 0 || class > t.classes || feature < 0 || feature > t.features {
		return 0, fmt.Errorf("%w: cell (%d,%d) outside table", results.ErrInvariant, class, feature)
	}
	return t.cells[class*(t.features+1)+feature], nil
}

// IntoProbabilities smooths every class row, one pool task per row, and
// returns the resulting ProbabilityTable. The count table is consumed: its
// cells move to the new table and any further use returns ErrConsumed.
func (t *CountTable) IntoProbabilities(ctx context.Context, p *pool.Pool, s Smoothing) (*ProbabilityTable, error) {
	if t.cells == nil {
		return nil, ErrConsumed
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	cells, cols, f := t.cells, t.features+1, t.features
	t.cells = nil

	corpus := cells[t.classes*cols : (t.classes+1)*cols]
	corpusTotal := corpus[f]

	err := p.Run(ctx, t.classes, func(_ context.Context, c int) error {
		row := cells[c*cols : (c+1)*cols]
		classTotal := row[f]
		for j := range f {
			row[j] = s.probability(row[j], corpus[j], classTotal, corpusTotal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ProbabilityTable{
		classes:  t.classes,
		features: t.features,
		cells:    cells,
	}, nil
}

// ProbabilityTable holds smoothed p(feature|class) for one batch.
type ProbabilityTable struct {
	classes  int
	features int
	cells    []float64
}

// Classes returns the number of class rows.
func (t *ProbabilityTable) Classes() int { return t.classes }

// Features returns the feature count F.
func (t *ProbabilityTable) Features() int { return t.features }

// Row returns the probabilities of class c, indexed by feature id. The slice
// aliases the table and must not be modified.
func (t *ProbabilityTable) Row(c int) []float64 {
	cols := t.features + 1
	return t.cells[c*cols : c*cols+t.features]
}

// Probability returns p(feature|class).
func (t *ProbabilityTable) Probability(class int, feature int32) float64 {
	return t.cells[class*(t.features+1)+int(feature)]
}
