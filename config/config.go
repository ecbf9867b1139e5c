package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/geoclass"
	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/nb"
)

// Config is the file and environment representation of a run.
type Config struct {
	Inputs  InputsConfig  `koanf:"inputs"`
	Output  OutputConfig  `koanf:"output"`
	Model   ModelConfig   `koanf:"model"`
	Batch   BatchConfig   `koanf:"batch"`
	Limits  LimitsConfig  `koanf:"limits"`
	Runtime RuntimeConfig `koanf:"runtime"`
	Logging LoggingConfig `koanf:"logging"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// InputsConfig names the input files. Compressed files (.gz, .zst, .lz4,
// .bz2) are decompressed on the fly.
type InputsConfig struct {
	Training   string `koanf:"training" validate:"required"`
	Test       string `koanf:"test" validate:"required"`
	TestFormat string `koanf:"test_format" validate:"oneof=test test-home"`
	Medoids    string `koanf:"medoids" validate:"required"`
	Vocabulary string `koanf:"vocabulary" validate:"required"`
}

// OutputConfig names the output files.
type OutputConfig struct {
	Classification string `koanf:"classification" validate:"required"`
	// Locations is written by the reference command.
	Locations string `koanf:"locations"`
	// KeepBatchFiles leaves batch files and the manifest after the merge.
	KeepBatchFiles bool `koanf:"keep_batch_files"`
}

// ModelConfig selects the model.
type ModelConfig struct {
	Features   int     `koanf:"features" validate:"gte=0"`
	Classes    int     `koanf:"classes" validate:"gte=0"`
	Smoothing  string  `koanf:"smoothing" validate:"oneof=dirichlet jelinek-mercer"`
	Mu         float64 `koanf:"mu" validate:"gte=0"`
	Lambda     float64 `koanf:"lambda" validate:"gte=0,lte=1"`
	Prior      string  `koanf:"prior" validate:"oneof=max-likelihood uniform home"`
	HomeWeight float64 `koanf:"home_weight" validate:"gte=0"`
	// RejectDuplicateMedoids fails on medoids sharing a position.
	RejectDuplicateMedoids bool `koanf:"reject_duplicate_medoids"`
}

// BatchConfig controls batch planning.
type BatchConfig struct {
	// Size overrides the planner when positive.
	Size int `koanf:"size" validate:"gte=0"`
	// MemoryGiB is the table budget. Zero uses the host memory.
	MemoryGiB    float64 `koanf:"memory_gib" validate:"gte=0"`
	SafetyFactor float64 `koanf:"safety_factor" validate:"gte=0"`
}

// LimitsConfig caps the number of data lines read.
type LimitsConfig struct {
	Training int `koanf:"training" validate:"gte=0"`
	Test     int `koanf:"test" validate:"gte=0"`
}

// RuntimeConfig tunes parallelism and IO.
type RuntimeConfig struct {
	Workers          int   `koanf:"workers" validate:"gte=0"`
	ChunkLines       int   `koanf:"chunk_lines" validate:"gte=0"`
	MergeConcurrency int   `koanf:"merge_concurrency" validate:"gte=0"`
	IOLimitBytes     int64 `koanf:"io_limit_bytes" validate:"gte=0"`
}

// LoggingConfig selects the log handler.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after a run when set.
	Textfile string `koanf:"textfile"`
}

// Default returns the built-in defaults. Input and output paths have none.
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			TestFormat: dataset.FormatTest.String(),
		},
		Model: ModelConfig{
			Smoothing: nb.Dirichlet.String(),
			Mu:        15000,
			Lambda:    0.5,
			Prior:     nb.MaxLikelihood.String(),
		},
		Batch: BatchConfig{
			SafetyFactor: nb.DefaultSafetyFactor,
		},
		Runtime: RuntimeConfig{
			ChunkLines:       dataset.DefaultChunkLines,
			MergeConcurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Params converts the configuration into classifier parameters.
func (c *Config) Params() (geoclass.Params, error) {
	format, err := dataset.ParseFormat(c.Inputs.TestFormat)
	if err != nil {
		return geoclass.Params{}, err
	}

	method, err := nb.ParseSmoothingMethod(c.Model.Smoothing)
	if err != nil {
		return geoclass.Params{}, err
	}
	smoothing := nb.DirichletSmoothing(c.Model.Mu)
	if method == nb.JelinekMercer {
		smoothing = nb.JelinekMercerSmoothing(c.Model.Lambda)
	}

	mode, err := nb.ParsePriorMode(c.Model.Prior)
	if err != nil {
		return geoclass.Params{}, err
	}

	return geoclass.Params{
		TrainingFile:       c.Inputs.Training,
		TestFile:           c.Inputs.Test,
		TestFormat:         format,
		MedoidFile:         c.Inputs.Medoids,
		VocabularyFile:     c.Inputs.Vocabulary,
		ClassificationFile: c.Output.Classification,
		FeatureCount:       c.Model.Features,
		ClassCount:         c.Model.Classes,
		Smoothing:          smoothing,
		Prior:              nb.Prior{Mode: mode, HomeWeight: c.Model.HomeWeight},
		BatchSize:          c.Batch.Size,
		MemoryBytes:        nb.MemoryFromGiB(c.Batch.MemoryGiB),
		SafetyFactor:       c.Batch.SafetyFactor,
		TrainingLimit:      c.Limits.Training,
		TestLimit:          c.Limits.Test,
		Workers:            c.Runtime.Workers,
		IOLimitBytesPerSec: c.Runtime.IOLimitBytes,
	}, nil
}

// Options returns the classifier options implied by the configuration.
func (c *Config) Options() []geoclass.Option {
	opts := []geoclass.Option{
		geoclass.WithLogger(c.Logger()),
		geoclass.WithChunkLines(c.Runtime.ChunkLines),
		geoclass.WithMergeConcurrency(c.Runtime.MergeConcurrency),
	}
	if c.Output.KeepBatchFiles {
		opts = append(opts, geoclass.WithKeepBatchFiles())
	}
	if c.Model.RejectDuplicateMedoids {
		opts = append(opts, geoclass.WithRejectDuplicateMedoids())
	}
	return opts
}

// Logger builds the configured logger.
func (c *Config) Logger() *geoclass.Logger {
	level := ParseLevel(c.Logging.Level)
	if c.Logging.Format == "json" {
		return geoclass.NewJSONLogger(level)
	}
	return geoclass.NewTextLogger(level)
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) String() string {
	return fmt.Sprintf("training=%s test=%s medoids=%s vocabulary=%s output=%s smoothing=%s prior=%s",
		c.Inputs.Training, c.Inputs.Test, c.Inputs.Medoids, c.Inputs.Vocabulary,
		c.Output.Classification, c.Model.Smoothing, c.Model.Prior)
}
