package geoclass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hupe1980/geoclass/classmap"
	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/internal/fs"
	"github.com/hupe1980/geoclass/internal/pool"
	"github.com/hupe1980/geoclass/internal/resource"
	"github.com/hupe1980/geoclass/nb"
	"github.com/hupe1980/geoclass/results"
	"github.com/hupe1980/geoclass/vocab"
)

// Plan is the batch layout of a run.
type Plan struct {
	Classes   int
	Features  int
	BatchSize int
	Batches   []nb.Batch
	Workers   int
	// MemoryBytes is the budget the batch size was planned for.
	MemoryBytes int64
	// TableBytes is the class-feature table of the largest batch.
	TableBytes int64
	// TrainBytes is the reservation of the largest batch: its table plus
	// the readers' corpus rows.
	TrainBytes int64
}

// Report summarizes a finished run.
type Report struct {
	RunID          string
	Plan           Plan
	BatchesRun     int
	BatchesSkipped int
	TestItems      int
	Medoids        dataset.Stats
	Test           dataset.Stats
	// Training holds the stats of every batch that was trained.
	Training        []nb.TrainStats
	Merge           results.MergeStats
	PeakMemoryBytes int64
	Output          string
	Duration        time.Duration
}

// Classifier runs the batched Naive Bayes classification of a test set.
type Classifier struct {
	params Params
	opts   options

	pool      *pool.Pool
	resources *resource.Controller
	vocab     *vocab.Vocabulary
	assigner  *classmap.Assigner
	trainer   *nb.Trainer
	evaluator *nb.Evaluator

	plan        Plan
	medoidStats dataset.Stats

	closeOnce sync.Once
}

// New validates params, loads the vocabulary and the medoids and plans the
// batches. Nothing is written until Run.
func New(ctx context.Context, params Params, optFns ...Option) (*Classifier, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)

	voc, err := LoadVocabulary(ctx, o.fs, params.VocabularyFile, params.FeatureCount)
	if err != nil {
		return nil, err
	}
	if voc.Len() == 0 {
		return nil, configError("vocabulary %s is empty", params.VocabularyFile)
	}
	if params.FeatureCount > 0 && voc.Len() < params.FeatureCount {
		o.logger.WarnContext(ctx, "vocabulary smaller than feature count",
			"features", voc.Len(),
			"feature_count", params.FeatureCount)
	}

	classOpts := []classmap.Option{classmap.WithLogger(o.logger.Logger)}
	if o.rejectDuplicates {
		classOpts = append(classOpts, classmap.WithRejectDuplicates())
	}
	assigner, medoidStats, err := LoadAssigner(ctx, o.fs, params.MedoidFile, params.ClassCount, classOpts...)
	o.logger.LogLoad(ctx, "medoids", params.MedoidFile, medoidStats, err)
	o.metricsCollector.RecordLoad("medoids", medoidStats, err)
	if err != nil {
		return nil, err
	}
	if params.ClassCount > 0 && assigner.Len() < params.ClassCount {
		return nil, configError("medoid file %s holds %d classes, want %d",
			params.MedoidFile, assigner.Len(), params.ClassCount)
	}

	workers := pool.New(params.Workers)
	plan, err := planBatches(params, assigner.Len(), voc.Len(), workers.Size())
	if err != nil {
		workers.Close()
		return nil, err
	}

	c := &Classifier{
		params:      params,
		opts:        o,
		vocab:       voc,
		assigner:    assigner,
		plan:        plan,
		medoidStats: medoidStats,
		resources: resource.NewController(resource.Config{
			MemoryLimitBytes:   plan.MemoryBytes,
			IOLimitBytesPerSec: params.IOLimitBytesPerSec,
		}),
		pool: workers,
	}

	c.trainer, err = nb.NewTrainer(nb.TrainerConfig{
		Corpus:    c.source(params.TrainingFile, dataset.FormatTraining, params.TrainingLimit),
		Assigner:  assigner,
		Pool:      c.pool,
		Smoothing: params.Smoothing,
		Resources: c.resources,
		Logger:    o.logger.Logger,
	})
	if err != nil {
		c.pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	c.evaluator, err = nb.NewEvaluator(c.pool, assigner, params.Prior)
	if err != nil {
		c.pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return c, nil
}

// planBatches sizes the batches. A planned size is clamped so the training
// pass fits the budget, which is also the controller's hard limit; an
// explicit BatchSize is taken as is.
func planBatches(params Params, classes, features, workers int) (Plan, error) {
	mem := params.MemoryBytes
	if mem == 0 {
		sys, err := resource.SystemMemory()
		if err != nil {
			return Plan{}, configError("no memory budget set and host memory unknown: %v", err)
		}
		mem = sys
	}

	size := params.BatchSize
	if size == 0 {
		size = nb.Planner{SafetyFactor: params.SafetyFactor}.SuggestBatchSize(mem, features)
		fit := nb.MaxBatchSize(mem, features, workers)
		if fit == 0 {
			return Plan{}, fmt.Errorf("%w: %w: budget of %d bytes cannot train one class (%d bytes)",
				ErrConfig, ErrMemoryLimitExceeded, mem, nb.Batch{End: 1}.TrainBytes(features, workers))
		}
		size = min(size, fit)
	}
	size = min(size, classes)

	p := Plan{
		Classes:     classes,
		Features:    features,
		BatchSize:   size,
		Batches:     nb.PlanBatches(classes, size),
		MemoryBytes: mem,
		Workers:     workers,
	}
	p.TableBytes = p.Batches[0].TableBytes(features)
	p.TrainBytes = p.Batches[0].TrainBytes(features, workers)
	return p, nil
}

// LoadVocabulary reads at most limit tokens of the vocabulary at path.
func LoadVocabulary(ctx context.Context, fsys fs.FileSystem, path string, limit int) (*vocab.Vocabulary, error) {
	r, err := dataset.Open(ctx, fsys, path, nil)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	defer r.Close()

	v, err := vocab.Load(r, limit)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return v, nil
}

// LoadAssigner reads at most limit medoids from path and indexes them.
func LoadAssigner(ctx context.Context, fsys fs.FileSystem, path string, limit int, opts ...classmap.Option) (*classmap.Assigner, dataset.Stats, error) {
	m, stats, err := dataset.LoadMedoids(ctx, dataset.Source{FS: fsys, Path: path, Limit: limit})
	if err != nil {
		return nil, stats, fmt.Errorf("medoids: %w", err)
	}

	opts = append(opts, classmap.WithOriginalIDs(m.Keys))
	a, err := classmap.New(m.Points, opts...)
	if err != nil {
		return nil, stats, fmt.Errorf("medoids %s: %w", path, err)
	}
	return a, stats, nil
}

func (c *Classifier) source(path string, format dataset.Format, limit int) dataset.Source {
	return dataset.Source{
		FS:         c.opts.fs,
		Path:       path,
		Format:     format,
		Vocab:      c.vocab,
		Limit:      limit,
		ChunkLines: c.opts.chunkLines,
		Resources:  c.resources,
	}
}

// Plan returns the batch layout.
func (c *Classifier) Plan() Plan { return c.plan }

// Assigner returns the class index.
func (c *Classifier) Assigner() *classmap.Assigner { return c.assigner }

// Run classifies the test set. Batches whose result file already exists are
// skipped, so an interrupted run resumes where it stopped. Once every batch
// is done the files are merged into the classification file.
func (c *Classifier) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	out := c.params.ClassificationFile

	manifest, err := c.prepareManifest(ctx)
	if err != nil {
		return nil, err
	}
	log := c.opts.logger.WithRun(manifest.RunID)
	log.LogPlan(ctx, c.plan)

	report := &Report{
		RunID:   manifest.RunID,
		Plan:    c.plan,
		Medoids: c.medoidStats,
		Output:  out,
	}

	items, testStats, err := dataset.LoadItems(ctx, c.pool, c.source(c.params.TestFile, c.params.TestFormat, c.params.TestLimit))
	log.LogLoad(ctx, "test", c.params.TestFile, testStats, err)
	c.opts.metricsCollector.RecordLoad("test", testStats, err)
	if err != nil {
		return nil, fmt.Errorf("test set: %w", err)
	}
	report.Test = testStats
	report.TestItems = len(items)

	paths := make([]string, len(c.plan.Batches))
	for _, b := range c.plan.Batches {
		paths[b.Index] = results.BatchPath(out, b.Index)

		batchStart := time.Now()
		skipped, stats, records, err := c.runBatch(ctx, b, paths[b.Index], items)
		duration := time.Since(batchStart)

		log.LogBatch(ctx, b, skipped, records, duration, err)
		c.opts.metricsCollector.RecordBatch(b.Index, skipped, duration, err)
		if err != nil {
			return nil, &BatchError{Batch: b.Index, Err: err}
		}
		if skipped {
			report.BatchesSkipped++
			continue
		}
		report.BatchesRun++
		report.Training = append(report.Training, stats)
	}

	mergeOpts := []results.MergerOption{
		results.WithFileSystem(c.opts.fs),
		results.WithConcurrency(c.opts.mergeConcurrency),
		results.WithLogger(log.Logger),
	}
	if c.opts.keepBatchFiles {
		mergeOpts = append(mergeOpts, results.WithKeepInputs())
	}
	merger := results.NewMerger(c.plan.BatchSize, c.plan.Classes, mergeOpts...)
	report.Merge, err = merger.Merge(ctx, paths, out)
	c.opts.metricsCollector.RecordMerge(report.Merge.Batches, report.Merge.Records, report.Merge.Duration, err)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	if !c.opts.keepBatchFiles {
		if err := c.opts.fs.Remove(results.ManifestPath(out)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove manifest: %w", err)
		}
	}

	report.PeakMemoryBytes = c.resources.PeakMemoryUsage()
	report.Duration = time.Since(start)
	log.InfoContext(ctx, "run completed",
		"output", out,
		"batches_run", report.BatchesRun,
		"batches_skipped", report.BatchesSkipped,
		"test_items", report.TestItems,
		"peak_memory_bytes", report.PeakMemoryBytes,
		"duration", report.Duration)
	return report, nil
}

// runBatch trains and evaluates batch b unless its result file exists.
func (c *Classifier) runBatch(ctx context.Context, b nb.Batch, path string, items []dataset.Item) (bool, nb.TrainStats, int, error) {
	exists, err := fs.Exists(c.opts.fs, path)
	if err != nil {
		return false, nb.TrainStats{}, 0, err
	}
	if exists {
		return true, nb.TrainStats{}, 0, nil
	}

	model, stats, err := c.trainer.Train(ctx, b)
	c.opts.metricsCollector.RecordLoad("training", stats.Stats, err)
	if err != nil {
		return false, stats, 0, err
	}
	defer model.Release()
	c.opts.metricsCollector.RecordMemory(c.resources.MemoryUsage(), c.resources.PeakMemoryUsage())

	recs, err := c.evaluator.Evaluate(ctx, model, items)
	if err != nil {
		return false, stats, 0, err
	}

	if err := fs.WriteAtomic(c.opts.fs, path, func(w io.Writer) error {
		return results.Write(w, recs)
	}); err != nil {
		return false, stats, 0, fmt.Errorf("write %s: %w", path, err)
	}
	return false, stats, len(recs), nil
}

// prepareManifest returns the manifest of the run in progress, or writes a
// new one. A manifest planned differently fails the run.
func (c *Classifier) prepareManifest(ctx context.Context) (*results.Manifest, error) {
	path := results.ManifestPath(c.params.ClassificationFile)
	want := results.NewManifest(c.plan.BatchSize, c.plan.Classes, c.plan.Features, len(c.plan.Batches),
		c.params.Smoothing.String(), c.params.Prior.String())

	have, err := results.ReadManifest(c.opts.fs, path, c.opts.codec)
	if err != nil {
		return nil, err
	}
	if have != nil {
		if err := have.Check(want); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if have.ModelChanged(want) {
			c.opts.logger.WarnContext(ctx, "smoothing or prior changed since the run started",
				"run_id", have.RunID,
				"smoothing", have.Smoothing,
				"prior", have.Prior)
		}
		c.opts.logger.InfoContext(ctx, "resuming run", "run_id", have.RunID, "created_at", have.CreatedAt)
		return have, nil
	}

	if err := results.WriteManifest(c.opts.fs, path, want, c.opts.codec); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return want, nil
}
