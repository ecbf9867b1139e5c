package results

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/geoclass/internal/conv"
	"github.com/hupe1980/geoclass/internal/fs"
)

// BatchPath returns the result file of batch index for a classification
// file: "<classification>.<index>".
func BatchPath(classification string, index int) string {
	return classification + "." + strconv.Itoa(index)
}

// Set is the content of one batch result file: records sorted by test id
// and the bitmap of those ids.
type Set struct {
	Batch   int
	Records []Record
	IDs     *roaring.Bitmap
}

// NewSet indexes records of batch. A test id appearing twice is an
// invariant violation.
func NewSet(batch int, records []Record) (*Set, error) {
	s := &Set{Batch: batch, Records: records, IDs: roaring.New()}
	for _, r := range records {
		id, err := conv.IntToUint32(r.TestID)
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d: test id: %v", ErrInvariant, batch, err)
		}
		if !s.IDs.CheckedAdd(id) {
			return nil, fmt.Errorf("%w: batch %d: duplicate test id %d", ErrInvariant, batch, r.TestID)
		}
	}
	slices.SortFunc(s.Records, func(a, b Record) int { return cmp.Compare(a.TestID, b.TestID) })
	return s, nil
}

// LoadSet reads the result file of batch.
func LoadSet(fsys fs.FileSystem, path string, batch int) (*Set, error) {
	f, err := fs.Open(fsys, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	if err := Read(f, func(r Record) error {
		records = append(records, r)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewSet(batch, records)
}

// Len returns the number of records.
func (s *Set) Len() int { return len(s.Records) }

// compare checks that s holds exactly the ids of ref.
func (s *Set) compare(ref *Set) error {
	if s.IDs.Equals(ref.IDs) {
		return nil
	}

	missing := roaring.AndNot(ref.IDs, s.IDs)
	extra := roaring.AndNot(s.IDs, ref.IDs)
	first := -1
	for _, b := range []*roaring.Bitmap{missing, extra} {
		if b.IsEmpty() {
			continue
		}
		if id := int(b.Minimum()); first < 0 || id < first {
			first = id
		}
	}

	return &MismatchError{
		Batch:    s.Batch,
		Want:     ref.IDs.GetCardinality(),
		Got:      s.IDs.GetCardinality(),
		Missing:  missing.GetCardinality(),
		Extra:    extra.GetCardinality(),
		FirstBad: first,
	}
}
