package pool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when work is submitted to a closed pool.
var ErrClosed = errors.New("pool closed")

// Pool is a fixed set of goroutines shared by every parallel stage of a run:
// bulk class assignment, corpus counting, probability conversion and
// evaluation.
//
// Tasks must not submit to the pool they run on. Stages are driven from the
// caller's goroutine (batch -> tasks -> join), which keeps the task graph flat
// and rules out nested-pool exhaustion.
type Pool struct {
	numWorkers int
	workCh     chan func()
	stopCh     chan struct{}
	wg         sync.WaitGroup
	closed     atomic.Bool
	submitMu   sync.RWMutex
}

// New creates a pool with numWorkers goroutines.
// If numWorkers <= 0, runtime.GOMAXPROCS(0) is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workCh:     make(chan func(), numWorkers*2),
		stopCh:     make(chan struct{}),
	}

	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.numWorkers
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			// Drain remaining work before exiting
			for {
				select {
				case fn, ok := <-p.workCh:
					if !ok {
						return
					}
					fn()
				default:
					return
				}
			}
		case fn, ok := <-p.workCh:
			if !ok {
				return
			}
			fn()
		}
	}
}

// Submit enqueues a task. It blocks while the queue is full.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}

	select {
	case p.workCh <- task:
		return nil
	case <-p.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes task(ctx, i) for i in [0, n) on the pool and waits for all of
// them. The first error cancels the context handed to the remaining tasks and
// is returned.
func (p *Pool) Run(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel(err)
		})
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		err := p.Submit(ctx, func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if err := task(ctx, i); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}

	wg.Wait()

	return firstErr
}

// Close stops the workers after queued work has drained. It is idempotent.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	p.submitMu.Lock()
	close(p.stopCh)
	close(p.workCh)
	p.submitMu.Unlock()

	p.wg.Wait()
}

// Range is a contiguous half-open interval [Begin, End).
type Range struct {
	Begin int
	End   int
}

// Len returns the number of elements in r.
func (r Range) Len() int {
	return r.End - r.Begin
}

// Partition splits [0, n) into at most parts contiguous ranges. The last range
// absorbs the remainder. Empty ranges are never returned.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	length := n / parts
	ranges := make([]Range, parts)
	for i := range parts {
		begin := i * length
		end := begin + length
		if i == parts-1 {
			end = n
		}
		ranges[i] = Range{Begin: begin, End: end}
	}
	return ranges
}
