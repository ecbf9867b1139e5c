package results

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is the prediction for one test item. Class is local to its batch in
// batch files and global in the merged file.
type Record struct {
	TestID       int
	Class        int
	Score        float64
	FeatureCount int
}

// AppendText appends "id\tclass\tscore\tfeatureCount\n" to dst.
func (r Record) AppendText(dst []byte) []byte {
	dst = strconv.AppendInt(dst, int64(r.TestID), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendInt(dst, int64(r.Class), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendFloat(dst, r.Score, 'g', -1, 64)
	dst = append(dst, '\t')
	dst = strconv.AppendInt(dst, int64(r.FeatureCount), 10)
	return append(dst, '\n')
}

// ParseRecord parses one result line.
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		return Record{}, fmt.Errorf("%w: %d fields in %q", ErrMalformed, len(fields), line)
	}

	var (
		r   Record
		err error
	)
	if r.TestID, err = strconv.Atoi(fields[0]); err != nil {
		return Record{}, fmt.Errorf("%w: id: %v", ErrMalformed, err)
	}
	if r.Class, err = strconv.Atoi(fields[1]); err != nil {
		return Record{}, fmt.Errorf("%w: class: %v", ErrMalformed, err)
	}
	if r.Score, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return Record{}, fmt.Errorf("%w: score: %v", ErrMalformed, err)
	}
	if r.FeatureCount, err = strconv.Atoi(fields[3]); err != nil {
		return Record{}, fmt.Errorf("%w: feature count: %v", ErrMalformed, err)
	}
	return r, nil
}

// Write writes records in the given order.
func Write(w io.Writer, records []Record) error {
	buf := make([]byte, 0, 64)
	for _, r := range records {
		buf = r.AppendText(buf[:0])
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Read parses every line of r, calling fn for each record. Blank lines are
// ignored.
func Read(r io.Reader, fn func(Record) error) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return sc.Err()
}
