package nb

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/geoclass/classmap"
	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/internal/pool"
	"github.com/hupe1980/geoclass/results"
)

// Evaluator scores test items against the classes of a trained batch.
type Evaluator struct {
	pool     *pool.Pool
	assigner *classmap.Assigner
	prior    Prior
	uniform  float64
}

// NewEvaluator returns an Evaluator. The assigner provides the global class
// count and the medoids used by the home prior.
func NewEvaluator(p *pool.Pool, assigner *classmap.Assigner, prior Prior) (*Evaluator, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{
		pool:     p,
		assigner: assigner,
		prior:    prior,
		uniform:  math.Log(1 / float64(assigner.Len())),
	}, nil
}

// Evaluate returns one record per item holding its best local class.
// Items are split into contiguous ranges, one per worker; the per-worker
// records are concatenated in range order.
func (e *Evaluator) Evaluate(ctx context.Context, m *Model, items []dataset.Item) ([]results.Record, error) {
	if m.Table == nil {
		return nil, fmt.Errorf("batch %d: model released", m.Batch.Index)
	}

	ranges := pool.Partition(len(items), e.pool.Size())
	parts := make([][]results.Record, len(ranges))

	err := e.pool.Run(ctx, len(ranges), func(ctx context.Context, w int) error {
		r := ranges[w]
		out := make([]results.Record, 0, r.Len())
		for i := r.Begin; i < r.End; i++ {
			if i%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			rec, err := e.score(m, &items[i])
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		parts[w] = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch %d: evaluate: %w", m.Batch.Index, err)
	}

	return slices.Concat(parts...), nil
}

func (e *Evaluator) score(m *Model, it *dataset.Item) (results.Record, error) {
	f := m.Table.Features()
	for _, t := range it.Features {
		if t < 0 || int(t) >= f {
			return results.Record{}, fmt.Errorf("%w: test item %d has feature %d outside [0,%d)",
				results.ErrInvariant, it.ID, t, f)
		}
	}

	best, bestScore := 0, 0.0
	for c := range m.Batch.Size() {
		row := m.Table.Row(c)
		s := e.priorTerm(m, c, it)
		for _, t := range it.Features {
			s += math.Log(row[t])
		}
		if c == 0 || s > bestScore {
			best, bestScore = c, s
		}
	}

	return results.Record{
		TestID:       it.ID,
		Class:        best,
		Score:        bestScore,
		FeatureCount: len(it.Features),
	}, nil
}

func (e *Evaluator) priorTerm(m *Model, c int, it *dataset.Item) float64 {
	switch e.prior.Mode {
	case Uniform:
		return e.uniform
	case Home:
		if it.Home != nil {
			return homeTerm(e.prior.HomeWeight, e.assigner.Medoid(m.Batch.Begin+c), *it.Home)
		}
	}
	return m.Priors[c]
}
