package nb

import (
	"math"
)

// DefaultSafetyFactor is the empirical constant C of the batch-size rule.
// It leaves room for everything besides the class-feature table.
const DefaultSafetyFactor = 100

// Planner sizes batches so one class-feature table fits in memory.
type Planner struct {
	// SafetyFactor overrides DefaultSafetyFactor when > 0.
	SafetyFactor float64
}

// SuggestBatchSize returns floor(sqrt(memoryBytes*C/featureCount)), at least 1.
func (p Planner) SuggestBatchSize(memoryBytes int64, featureCount int) int {
	c := p.SafetyFactor
	if c <= 0 {
		c = DefaultSafetyFactor
	}
	if memoryBytes <= 0 || featureCount <= 0 {
		return 1
	}

	n := math.Floor(math.Sqrt(float64(memoryBytes) * c / float64(featureCount)))
	if n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// SuggestBatchSize uses the default safety factor.
func SuggestBatchSize(memoryBytes int64, featureCount int) int {
	return Planner{}.SuggestBatchSize(memoryBytes, featureCount)
}

// MemoryFromGiB converts GiB to bytes.
func MemoryFromGiB(gib float64) int64 {
	return int64(gib * (1 << 30))
}

// Batch is the contiguous class range [Begin, End).
type Batch struct {
	Index int
	Begin int
	End   int
}

// Size returns the number of classes in the batch.
func (b Batch) Size() int { return b.End - b.Begin }

// Contains reports whether global class id lies in the batch.
func (b Batch) Contains(class int) bool { return class >= b.Begin && class < b.End }

// TableBytes returns the size of the batch's class-feature table.
func (b Batch) TableBytes(featureCount int) int64 {
	return int64(b.Size()+1) * int64(featureCount+1) * 8
}

// TrainBytes is what a training pass of b reserves: the table plus one dense
// corpus row per reader. The readers' sparse class cells are not counted.
func (b Batch) TrainBytes(featureCount, workers int) int64 {
	return b.TableBytes(featureCount) + ReaderBytes(featureCount, workers)
}

// ReaderBytes returns the dense corpus rows held by workers training readers.
func ReaderBytes(featureCount, workers int) int64 {
	return int64(max(workers, 1)) * int64(featureCount) * 8
}

// MaxBatchSize returns the largest batch size whose training pass fits in
// memoryBytes, or 0 if not even a single class fits.
func MaxBatchSize(memoryBytes int64, featureCount, workers int) int {
	free := memoryBytes - ReaderBytes(featureCount, workers)
	rows := free / (int64(featureCount+1) * 8)
	if rows < 2 {
		return 0
	}
	return int(min(rows-1, math.MaxInt32))
}

// PlanBatches splits classCount classes into batches of batchSize; the last
// batch takes the remainder.
func PlanBatches(classCount, batchSize int) []Batch {
	if classCount <= 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = classCount
	}

	batches := make([]Batch, 0, (classCount+batchSize-1)/batchSize)
	for begin := 0; begin < classCount; begin += batchSize {
		batches = append(batches, Batch{
			Index: len(batches),
			Begin: begin,
			End:   min(begin+batchSize, classCount),
		})
	}
	return batches
}
