package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoclass"
	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/nb"
)

const sample = `
inputs:
  training: train.txt.gz
  test: test.txt
  test_format: test-home
  medoids: medoids.txt
  vocabulary: features.txt
output:
  classification: out/classification.txt
model:
  features: 1000
  smoothing: jelinek-mercer
  lambda: 0.25
  prior: home
  home_weight: 0.4
batch:
  memory_gib: 2
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geoclass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "train.txt.gz", cfg.Inputs.Training)
	assert.Equal(t, 1000, cfg.Model.Features)
	// Defaults survive for keys the file leaves out.
	assert.Equal(t, float64(15000), cfg.Model.Mu)
	assert.Equal(t, dataset.DefaultChunkLines, cfg.Runtime.ChunkLines)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, dataset.FormatTestHome, params.TestFormat)
	assert.Equal(t, nb.JelinekMercerSmoothing(0.25), params.Smoothing)
	assert.Equal(t, nb.Prior{Mode: nb.Home, HomeWeight: 0.4}, params.Prior)
	assert.Equal(t, int64(2<<30), params.MemoryBytes)
	assert.NoError(t, params.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GEOCLASS_MODEL__HOME_WEIGHT", "0.75")
	t.Setenv("GEOCLASS_BATCH__SIZE", "50")
	t.Setenv("GEOCLASS_OUTPUT__KEEP_BATCH_FILES", "true")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Model.HomeWeight)
	assert.Equal(t, 50, cfg.Batch.Size)
	assert.True(t, cfg.Output.KeepBatchFiles)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "inputs: ["))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing training", func(c *Config) { c.Inputs.Training = "" }, "Config.Inputs.Training"},
		{"unknown smoothing", func(c *Config) { c.Model.Smoothing = "laplace" }, "Config.Model.Smoothing"},
		{"lambda above one", func(c *Config) { c.Model.Lambda = 1.5 }, "Config.Model.Lambda"},
		{"negative batch", func(c *Config) { c.Batch.Size = -1 }, "Config.Batch.Size"},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }, "Config.Logging.Level"},
		{"home prior without home data", func(c *Config) {
			c.Model.Prior = "home"
			c.Inputs.TestFormat = "test"
		}, "Config.Inputs.TestFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, geoclass.ErrConfig))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Fields)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
		})
	}

	assert.NoError(t, valid().Validate())
}

func valid() *Config {
	cfg := Default()
	cfg.Inputs.Training = "train.txt"
	cfg.Inputs.Test = "test.txt"
	cfg.Inputs.Medoids = "medoids.txt"
	cfg.Inputs.Vocabulary = "vocab.txt"
	cfg.Output.Classification = "out.txt"
	return cfg
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
