package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/geoclass/internal/fs"
	"github.com/hupe1980/geoclass/internal/resource"
)

// headerCount reports whether line is a record-count header.
func headerCount(line string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RecordCount returns the number of records in path. If the first line holds
// a count it is trusted; otherwise every line is counted.
func RecordCount(ctx context.Context, fsys fs.FileSystem, path string, rc *resource.Controller) (int, bool, error) {
	r, err := Open(ctx, fsys, path, rc)
	if err != nil {
		return 0, false, err
	}
	defer r.Close()

	sc := newScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, false, fmt.Errorf("dataset: read %s: %w", path, err)
		}
		return 0, false, nil
	}
	if n, ok := headerCount(sc.Text()); ok {
		return n, true, nil
	}

	lines := 1
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		return 0, false, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return lines, false, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 256*1024), maxLineBytes)
	return sc
}

// maxLineBytes bounds a single input line.
const maxLineBytes = 16 * 1024 * 1024
