package resource

import (
	"context"
	"io"
)

// RateLimitedReader wraps an io.Reader with the controller's IO limit.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewRateLimitedReader creates a new RateLimitedReader.
// With a nil controller or no IO limit it reads straight through.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) io.Reader {
	if rc == nil || rc.ioLimiter == nil {
		return r
	}
	return &RateLimitedReader{ctx: ctx, r: r, rc: rc}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	// A single wait may not exceed the limiter burst.
	if chunk := r.rc.ioChunk(); chunk > 0 && len(p) > chunk {
		p = p[:chunk]
	}
	if err := r.rc.AcquireIO(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
