package results

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/geoclass/codec"
	"github.com/hupe1980/geoclass/internal/fs"
)

// Manifest records how a run was planned. Batch files of runs with different
// plans cannot be merged, so a resumed run must match the manifest on disk.
type Manifest struct {
	RunID        string    `json:"run_id"`
	BatchSize    int       `json:"batch_size"`
	ClassCount   int       `json:"class_count"`
	FeatureCount int       `json:"feature_count"`
	Batches      int       `json:"batches"`
	Smoothing    string    `json:"smoothing"`
	Prior        string    `json:"prior"`
	CreatedAt    time.Time `json:"created_at"`
}

// ManifestPath returns "<classification>.manifest.json".
func ManifestPath(classification string) string {
	return classification + ".manifest.json"
}

// NewManifest stamps a fresh run id and creation time.
func NewManifest(batchSize, classCount, featureCount, batches int, smoothing, prior string) *Manifest {
	return &Manifest{
		RunID:        uuid.NewString(),
		BatchSize:    batchSize,
		ClassCount:   classCount,
		FeatureCount: featureCount,
		Batches:      batches,
		Smoothing:    smoothing,
		Prior:        prior,
		CreatedAt:    time.Now().UTC(),
	}
}

// ReadManifest loads the manifest at path. It returns nil without error if
// there is none.
func ReadManifest(fsys fs.FileSystem, path string, c codec.Codec) (*Manifest, error) {
	if c == nil {
		c = codec.Default
	}
	f, err := fs.Open(fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// WriteManifest writes m to path atomically.
func WriteManifest(fsys fs.FileSystem, path string, m *Manifest, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	data, err := c.Marshal(m)
	if err != nil {
		return err
	}
	return fs.WriteAtomic(fsys, path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}

// Check returns ErrManifestMismatch if other was planned with a different
// batch size, class count or feature count.
func (m *Manifest) Check(other *Manifest) error {
	switch {
	case m.BatchSize != other.BatchSize:
		return fmt.Errorf("%w: batch size %d, run %s used %d", ErrManifestMismatch, other.BatchSize, m.RunID, m.BatchSize)
	case m.ClassCount != other.ClassCount:
		return fmt.Errorf("%w: class count %d, run %s used %d", ErrManifestMismatch, other.ClassCount, m.RunID, m.ClassCount)
	case m.FeatureCount != other.FeatureCount:
		return fmt.Errorf("%w: feature count %d, run %s used %d", ErrManifestMismatch, other.FeatureCount, m.RunID, m.FeatureCount)
	}
	return nil
}

// ModelChanged reports whether smoothing or prior differ. Such runs merge
// without error but their batch scores are not comparable.
func (m *Manifest) ModelChanged(other *Manifest) bool {
	return m.Smoothing != other.Smoothing || m.Prior != other.Prior
}
