package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/geoclass/internal/fs"
	"github.com/hupe1980/geoclass/internal/pool"
	"github.com/hupe1980/geoclass/internal/resource"
	"github.com/hupe1980/geoclass/vocab"
)

// DefaultChunkLines is the number of lines a reader claims at once.
const DefaultChunkLines = 4096

// Source describes one line-oriented input file.
type Source struct {
	FS     fs.FileSystem
	Path   string
	Format Format
	Vocab  *vocab.Vocabulary
	// Limit caps the number of data lines read. 0 reads everything.
	Limit int
	// ChunkLines is the claim size of cooperative readers.
	ChunkLines int
	// Resources throttles reads. May be nil.
	Resources *resource.Controller
}

func (src Source) chunkLines() int {
	if src.ChunkLines > 0 {
		return src.ChunkLines
	}
	return DefaultChunkLines
}

// Line is a raw data line and its 1-based ordinal.
type Line struct {
	No   int
	Text string
}

// Stream is a shared sequential reader. Readers claim chunks of lines under a
// lock and parse them outside of it.
type Stream struct {
	mu      sync.Mutex
	r       io.ReadCloser
	sc      *bufio.Scanner
	pending *Line
	next    int
	limit   int
	chunk   int
	header  int
	done    bool
	err     error
}

// Open opens the source and consumes its record-count header, if any.
func (src Source) Open(ctx context.Context) (*Stream, error) {
	if src.Format.needsVocab() && src.Vocab == nil {
		return nil, ErrNoVocabulary
	}
	r, err := Open(ctx, src.FS, src.Path, src.Resources)
	if err != nil {
		return nil, err
	}

	s := &Stream{
		r:      r,
		sc:     newScanner(r),
		next:   1,
		limit:  src.Limit,
		chunk:  src.chunkLines(),
		header: -1,
	}

	if s.sc.Scan() {
		text := s.sc.Text()
		if n, ok := headerCount(text); ok {
			s.header = n
		} else {
			s.pending = &Line{No: 1, Text: text}
		}
	} else {
		s.done, s.err = true, s.sc.Err()
	}

	return s, nil
}

// Header returns the record count announced on the first line, or -1.
func (s *Stream) Header() int { return s.header }

// Next claims the next chunk of lines into dst. It returns an empty slice
// once the input is exhausted or the limit is reached.
func (s *Stream) Next(dst []Line) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst = dst[:0]
	for !s.done && len(dst) < s.chunk {
		if s.limit > 0 && s.next > s.limit {
			s.done = true
			break
		}
		if s.pending != nil {
			dst = append(dst, *s.pending)
			s.pending = nil
			s.next++
			continue
		}
		if !s.sc.Scan() {
			s.done, s.err = true, s.sc.Err()
			break
		}
		dst = append(dst, Line{No: s.next, Text: s.sc.Text()})
		s.next++
	}
	return dst, s.err
}

// Close releases the underlying file.
func (s *Stream) Close() error { return s.r.Close() }

// Sink consumes the items of one reader. It is never called concurrently.
type Sink func(Item) error

// Scan streams src through p. Every worker claims chunks from one shared
// Stream, parses them and hands the items to its own sink, created by
// newSink(worker). Per-worker statistics are summed after all workers joined.
func Scan(ctx context.Context, p *pool.Pool, src Source, newSink func(worker int) Sink) (Stats, error) {
	start := time.Now()

	s, err := src.Open(ctx)
	if err != nil {
		return Stats{}, err
	}
	defer s.Close()

	workers := p.Size()
	stats := make([]Stats, workers)

	err = p.Run(ctx, workers, func(ctx context.Context, w int) error {
		return consume(ctx, s, src, &stats[w], newSink(w))
	})

	var total Stats
	for _, st := range stats {
		total.Add(st)
	}
	total.Duration = time.Since(start)

	return total, err
}

func consume(ctx context.Context, s *Stream, src Source, st *Stats, sink Sink) error {
	buf := make([]Line, 0, src.chunkLines())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		lines, err := s.Next(buf)
		if err != nil {
			return fmt.Errorf("dataset: read %s: %w", src.Path, err)
		}
		if len(lines) == 0 {
			return nil
		}

		for _, l := range lines {
			st.Lines++
			if strings.TrimSpace(l.Text) == "" {
				continue
			}

			it, err := src.Format.Parse(l.No, l.Text, src.Vocab)
			switch {
			case errors.Is(err, ErrFiltered):
				st.Parsed++
				st.Filtered++
				continue
			case err != nil:
				st.Errors++
				continue
			}
			st.Parsed++

			if err := sink(it); err != nil {
				return err
			}
			st.Items++
		}
		buf = lines
	}
}
