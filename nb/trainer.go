package nb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hupe1980/geoclass/classmap"
	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/internal/pool"
	"github.com/hupe1980/geoclass/internal/resource"
	"github.com/hupe1980/geoclass/results"
)

// TrainerConfig wires a Trainer.
type TrainerConfig struct {
	// Corpus is the training source. Its vocabulary fixes the feature count.
	Corpus    dataset.Source
	Assigner  *classmap.Assigner
	Pool      *pool.Pool
	Smoothing Smoothing
	// Resources reserves table memory per batch. May be nil.
	Resources *resource.Controller
	Logger    *slog.Logger
}

// Trainer builds the model of one batch per call to Train.
type Trainer struct {
	cfg      TrainerConfig
	features int
}

// NewTrainer validates cfg and returns a Trainer.
func NewTrainer(cfg TrainerConfig) (*Trainer, error) {
	if cfg.Corpus.Vocab == nil {
		return nil, dataset.ErrNoVocabulary
	}
	if cfg.Assigner == nil || cfg.Pool == nil {
		return nil, errors.New("nb: trainer needs an assigner and a pool")
	}
	if err := cfg.Smoothing.Validate(); err != nil {
		return nil, err
	}
	cfg.Corpus.Format = dataset.FormatTraining
	return &Trainer{cfg: cfg, features: cfg.Corpus.Vocab.Len()}, nil
}

// Features returns the feature count F.
func (t *Trainer) Features() int { return t.features }

// TrainStats reports one training pass.
type TrainStats struct {
	dataset.Stats
	// InBatch counts training items assigned to a class of the batch.
	InBatch int
}

// Model is a trained batch. Release must be called once the batch has been
// evaluated to return its memory reservation.
type Model struct {
	Batch  Batch
	Table  *ProbabilityTable
	Priors []float64
	// Items is the number of training items the priors were derived from.
	Items int

	release func()
}

// Release drops the table and returns its reservation. It is idempotent.
func (m *Model) Release() {
	if m.release != nil {
		m.release()
		m.release = nil
	}
	m.Table = nil
	m.Priors = nil
}

// Train streams the corpus once and builds the smoothed model of batch b.
func (t *Trainer) Train(ctx context.Context, b Batch) (*Model, TrainStats, error) {
	start := time.Now()

	release, err := t.cfg.Resources.Reserve(b.TrainBytes(t.features, t.cfg.Pool.Size()))
	if err != nil {
		return nil, TrainStats{}, fmt.Errorf("batch %d: %w", b.Index, err)
	}
	ok := false
	defer func() {
		if !ok {
			release()
		}
	}()

	accs := make([]*accumulator, t.cfg.Pool.Size())
	corpusStats, err := dataset.Scan(ctx, t.cfg.Pool, t.cfg.Corpus, func(w int) dataset.Sink {
		acc := newAccumulator(b, t.features)
		accs[w] = acc
		return func(it dataset.Item) error {
			return acc.add(it.ID, t.cfg.Assigner.Assign(it.Point), it.Features)
		}
	})
	if err != nil {
		return nil, TrainStats{Stats: corpusStats}, fmt.Errorf("batch %d: train: %w", b.Index, err)
	}

	counts := NewCountTable(b.Size(), t.features)
	priors := make([]float64, b.Size())
	n, inBatch := 0, 0
	for _, acc := range accs {
		if acc == nil {
			continue
		}
		if err := acc.mergeInto(counts, priors); err != nil {
			return nil, TrainStats{Stats: corpusStats}, fmt.Errorf("batch %d: %w", b.Index, err)
		}
		n += acc.items
		inBatch += acc.inBatch
	}

	stats := TrainStats{Stats: corpusStats, InBatch: inBatch}
	if n == 0 {
		return nil, stats, fmt.Errorf("batch %d: %w", b.Index, ErrEmptyCorpus)
	}

	for c := range priors {
		priors[c] = math.Log(priors[c] / float64(n))
	}

	table, err := counts.IntoProbabilities(ctx, t.cfg.Pool, t.cfg.Smoothing)
	if err != nil {
		return nil, stats, fmt.Errorf("batch %d: smoothing: %w", b.Index, err)
	}

	stats.Duration = time.Since(start)
	if t.cfg.Logger != nil {
		t.cfg.Logger.Info("batch trained",
			"batch", b.Index,
			"begin", b.Begin,
			"end", b.End,
			"items", n,
			"in_batch", inBatch,
			"corpus", corpusStats,
			"duration", stats.Duration)
	}

	ok = true
	return &Model{Batch: b, Table: table, Priors: priors, Items: n, release: release}, stats, nil
}

// accumulator is the private count state of one reader. Class cells are
// sparse since a reader only ever sees a fraction of the table.
type accumulator struct {
	batch    Batch
	features int
	corpus   []float64
	cells    map[uint64]float64
	priors   []float64
	items    int
	inBatch  int
}

func newAccumulator(b Batch, features int) *accumulator {
	return &accumulator{
		batch:    b,
		features: features,
		corpus:   make([]float64, features),
		cells:    make(map[uint64]float64),
		priors:   make([]float64, b.Size()),
	}
}

func cellKey(class int, feature int32) uint64 {
	return uint64(class)<<32 | uint64(uint32(feature))
}

func (a *accumulator) add(id, class int, features []int32) error {
	for _, f := range features {
		if f < 0 || int(f) >= a.features {
			return fmt.Errorf("%w: item %d has feature %d outside [0,%d)", results.ErrInvariant, id, f, a.features)
		}
	}

	a.items++
	in := a.batch.Contains(class)
	local := class - a.batch.Begin
	if in {
		a.inBatch++
		a.priors[local]++
	}
	for _, f := range features {
		a.corpus[f]++
		if in {
			a.cells[cellKey(local, f)]++
		}
	}
	return nil
}

func (a *accumulator) mergeInto(t *CountTable, priors []float64) error {
	for f, n := range a.corpus {
		if n == 0 {
			continue
		}
		if err := t.AddCorpus(int32(f), n); err != nil {
			return err
		}
	}
	for k, n := range a.cells {
		if err := t.Add(int(k>>32), int32(uint32(k)), n); err != nil {
			return err
		}
	}
	for c, n := range a.priors {
		priors[c] += n
	}
	return nil
}
