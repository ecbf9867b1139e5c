package nb

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoclass/classmap"
	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/geo"
	"github.com/hupe1980/geoclass/internal/pool"
	"github.com/hupe1980/geoclass/internal/resource"
	"github.com/hupe1980/geoclass/results"
	"github.com/hupe1980/geoclass/testutil"
	"github.com/hupe1980/geoclass/vocab"
)

type fixture struct {
	assigner *classmap.Assigner
	pool     *pool.Pool
	corpus   dataset.Source
	vocab    *vocab.Vocabulary
}

func newFixture(t *testing.T, workers int, medoids []geo.Point, tokens []string, items []testutil.Item) *fixture {
	t.Helper()

	a, err := classmap.New(medoids)
	require.NoError(t, err)

	p := pool.New(workers)
	t.Cleanup(p.Close)

	v := vocab.FromTokens(tokens...)
	path := testutil.WriteCorpus(t, t.TempDir(), "train.txt", items)

	return &fixture{
		assigner: a,
		pool:     p,
		vocab:    v,
		corpus:   dataset.Source{Path: path, Vocab: v, ChunkLines: 3},
	}
}

func (f *fixture) trainer(t *testing.T, s Smoothing, rc *resource.Controller) *Trainer {
	t.Helper()
	tr, err := NewTrainer(TrainerConfig{
		Corpus:    f.corpus,
		Assigner:  f.assigner,
		Pool:      f.pool,
		Smoothing: s,
		Resources: rc,
	})
	require.NoError(t, err)
	return tr
}

func repeat(n int, it testutil.Item) []testutil.Item {
	out := make([]testutil.Item, n)
	for i := range out {
		out[i] = it
	}
	return out
}

func TestTrainer_SingleClass(t *testing.T) {
	items := append(
		repeat(5, testutil.Item{Point: testutil.At(1, 1), Tags: []string{"a"}}),
		testutil.Item{Point: testutil.At(2, 2), Tags: []string{"b"}},
	)
	f := newFixture(t, 2, []geo.Point{{Lat: 0, Lon: 0}}, []string{"a", "b", "c"}, items)

	model, stats, err := f.trainer(t, DirichletSmoothing(0), nil).Train(context.Background(), Batch{End: 1})
	require.NoError(t, err)
	defer model.Release()

	assert.Equal(t, 6, stats.Items)
	assert.Equal(t, 6, stats.InBatch)
	assert.Equal(t, 6, model.Items)

	assert.InDelta(t, 5.0/6, model.Table.Probability(0, 0), 1e-12)
	assert.InDelta(t, 1.0/6, model.Table.Probability(0, 1), 1e-12)
	// "c" is in the vocabulary but never occurs in training.
	assert.Equal(t, 1.0, model.Table.Probability(0, 2))
	assert.InDelta(t, 0.0, model.Priors[0], 1e-12)
}

func TestTrainer_AggregateCoversFullCorpus(t *testing.T) {
	medoids := []geo.Point{{Lat: 0, Lon: 0}, {Lat: 10, Lon: 10}, {Lat: 50, Lon: 50}}
	items := append(
		repeat(3, testutil.Item{Point: testutil.At(0.1, 0.1), Tags: []string{"a", "a", "b"}}),
		repeat(2, testutil.Item{Point: testutil.At(10.1, 10.1), Tags: []string{"b"}})...,
	)
	f := newFixture(t, 3, medoids, []string{"a", "b"}, items)
	tr := f.trainer(t, DirichletSmoothing(10), nil)

	// Class 0: a=6, b=3. Corpus: a=6, b=5 of 11 tokens. Class 2 has no items, so its smoothed
	// estimate is the background, whichever batch it is trained in.
	for _, b := range PlanBatches(3, 1) {
		model, stats, err := tr.Train(context.Background(), b)
		require.NoError(t, err)
		assert.Equal(t, 5, stats.Items)

		if b.Begin == 2 {
			assert.InDelta(t, 6.0/11, model.Table.Probability(0, 0), 1e-12)
			assert.InDelta(t, 5.0/11, model.Table.Probability(0, 1), 1e-12)
			assert.True(t, math.IsInf(model.Priors[0], -1))
			assert.Equal(t, 0, stats.InBatch)
		}
		if b.Begin == 0 {
			assert.InDelta(t, math.Log(3.0/5), model.Priors[0], 1e-12)
			assert.InDelta(t, (6+10*6.0/11)/(9+10), model.Table.Probability(0, 0), 1e-12)
		}
		model.Release()
	}
}

func TestTrainer_ParallelMatchesSequential(t *testing.T) {
	rng := testutil.NewRNG(99)
	medoids := rng.Points(12)
	tokens := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7"}

	items := make([]testutil.Item, 400)
	for i := range items {
		c := medoids[rng.Intn(len(medoids))]
		items[i] = testutil.Item{Point: ptr(rng.Near(c, 0.01)), Tags: rng.Tags(tokens, 1+rng.Intn(4))}
	}

	tests := make([]testutil.Item, 50)
	for i := range tests {
		tests[i] = testutil.Item{Tags: rng.Tags(tokens, 1+rng.Intn(3))}
	}

	run := func(workers int) []results.Record {
		f := newFixture(t, workers, medoids, tokens, items)
		testSet, _, err := dataset.LoadItems(context.Background(), f.pool, dataset.Source{
			Path:   testutil.WriteTestSet(t, t.TempDir(), "test.txt", tests),
			Format: dataset.FormatTest,
			Vocab:  f.vocab,
		})
		require.NoError(t, err)

		tr := f.trainer(t, DirichletSmoothing(5), nil)
		ev, err := NewEvaluator(f.pool, f.assigner, Prior{Mode: MaxLikelihood})
		require.NoError(t, err)

		model, _, err := tr.Train(context.Background(), Batch{End: len(medoids)})
		require.NoError(t, err)
		defer model.Release()

		recs, err := ev.Evaluate(context.Background(), model, testSet)
		require.NoError(t, err)
		return recs
	}

	seq := run(1)
	par := run(4)
	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].TestID, par[i].TestID)
		assert.Equal(t, seq[i].Class, par[i].Class)
		assert.InDelta(t, seq[i].Score, par[i].Score, 1e-9)
	}
}

func TestTrainer_Errors(t *testing.T) {
	t.Run("empty corpus", func(t *testing.T) {
		f := newFixture(t, 2, []geo.Point{{Lat: 0, Lon: 0}}, []string{"a"},
			[]testutil.Item{{Point: testutil.At(1, 1), Tags: []string{"zzz"}}})
		_, stats, err := f.trainer(t, DirichletSmoothing(1), nil).Train(context.Background(), Batch{End: 1})
		assert.ErrorIs(t, err, ErrEmptyCorpus)
		assert.Equal(t, 1, stats.Filtered)
	})

	t.Run("memory budget", func(t *testing.T) {
		f := newFixture(t, 1, []geo.Point{{Lat: 0, Lon: 0}}, []string{"a"},
			[]testutil.Item{{Point: testutil.At(1, 1), Tags: []string{"a"}}})
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 8})
		_, _, err := f.trainer(t, DirichletSmoothing(1), rc).Train(context.Background(), Batch{End: 1})
		assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("reservation released", func(t *testing.T) {
		f := newFixture(t, 1, []geo.Point{{Lat: 0, Lon: 0}}, []string{"a"},
			[]testutil.Item{{Point: testutil.At(1, 1), Tags: []string{"a"}}})
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
		model, _, err := f.trainer(t, DirichletSmoothing(1), rc).Train(context.Background(), Batch{End: 1})
		require.NoError(t, err)
		assert.Equal(t, Batch{End: 1}.TrainBytes(1, 1), rc.MemoryUsage())

		model.Release()
		model.Release()
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("unreadable corpus", func(t *testing.T) {
		f := newFixture(t, 1, []geo.Point{{Lat: 0, Lon: 0}}, []string{"a"}, nil)
		f.corpus.Path = f.corpus.Path + ".missing"
		_, _, err := f.trainer(t, DirichletSmoothing(1), nil).Train(context.Background(), Batch{End: 1})
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewTrainer(TrainerConfig{})
		assert.ErrorIs(t, err, dataset.ErrNoVocabulary)
	})
}

func TestAccumulator_FeatureOutOfRange(t *testing.T) {
	acc := newAccumulator(Batch{End: 1}, 2)
	err := acc.add(7, 0, []int32{0, 2})
	assert.ErrorIs(t, err, results.ErrInvariant)
	assert.Zero(t, acc.items)
}

func ptr(p geo.Point) *geo.Point { return &p }
