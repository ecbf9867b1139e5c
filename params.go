package geoclass

import (
	"fmt"

	"github.com/hupe1980/geoclass/dataset"
	"github.com/hupe1980/geoclass/nb"
)

// Params is the parameter contract of a classification run. New rejects
// params that violate it before any batch starts.
type Params struct {
	// TrainingFile holds "id,user,lat,lon,tags" lines, optionally preceded
	// by a record count line.
	TrainingFile string
	// TestFile holds the items to classify.
	TestFile string
	// TestFormat is dataset.FormatTest or dataset.FormatTestHome.
	TestFormat dataset.Format
	// MedoidFile holds one "id,lat,lon" line per class.
	MedoidFile string
	// VocabularyFile holds the ranked "index\ttoken" feature list.
	VocabularyFile string
	// ClassificationFile is the merged output. Batch files and the run
	// manifest are written next to it.
	ClassificationFile string

	// FeatureCount caps the vocabulary. Zero uses every token.
	FeatureCount int
	// ClassCount caps the number of medoids read. Zero uses every medoid.
	ClassCount int

	Smoothing nb.Smoothing
	Prior     nb.Prior

	// BatchSize overrides the planner. Zero plans from MemoryBytes.
	BatchSize int
	// MemoryBytes is the training memory budget: a batch table plus the
	// readers' corpus rows. Zero uses the physical memory of the host. A
	// planned batch size always fits it.
	MemoryBytes int64
	// SafetyFactor is the planner constant C. Zero uses nb.DefaultSafetyFactor.
	SafetyFactor float64

	// TrainingLimit and TestLimit cap the number of data lines read. Zero
	// reads all.
	TrainingLimit int
	TestLimit     int

	// Workers sizes the worker pool. Zero uses GOMAXPROCS.
	Workers int
	// IOLimitBytesPerSec throttles corpus reads. Zero disables throttling.
	IOLimitBytesPerSec int64
}

// Validate checks the parameter contract.
func (p Params) Validate() error {
	required := []struct{ name, value string }{
		{"training file", p.TrainingFile},
		{"test file", p.TestFile},
		{"medoid file", p.MedoidFile},
		{"vocabulary file", p.VocabularyFile},
		{"classification file", p.ClassificationFile},
	}
	for _, r := range required {
		if r.value == "" {
			return configError("%s is not set", r.name)
		}
	}

	if p.TestFormat != dataset.FormatTest && p.TestFormat != dataset.FormatTestHome {
		return configError("test format %s cannot be classified", p.TestFormat)
	}
	if p.Prior.Mode == nb.Home && p.TestFormat != dataset.FormatTestHome {
		return configError("prior %s needs test format %s", p.Prior, dataset.FormatTestHome)
	}

	counts := []struct {
		name  string
		value int64
	}{
		{"feature count", int64(p.FeatureCount)},
		{"class count", int64(p.ClassCount)},
		{"batch size", int64(p.BatchSize)},
		{"memory budget", p.MemoryBytes},
		{"training limit", int64(p.TrainingLimit)},
		{"test limit", int64(p.TestLimit)},
		{"workers", int64(p.Workers)},
		{"io limit", p.IOLimitBytesPerSec},
	}
	for _, c := range counts {
		if c.value < 0 {
			return configError("%s must not be negative, got %d", c.name, c.value)
		}
	}
	if p.SafetyFactor < 0 {
		return configError("safety factor must not be negative, got %g", p.SafetyFactor)
	}

	if err := p.Smoothing.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := p.Prior.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}
