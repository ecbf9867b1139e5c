package resource

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Limit exceeded
	err := c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
}

func TestController_Reserve(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 64})

	release, err := c.Reserve(64)
	require.NoError(t, err)
	assert.Equal(t, int64(64), c.MemoryUsage())

	_, err = c.Reserve(1)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	release()
	release()
	assert.Zero(t, c.MemoryUsage())

	release, err = c.Reserve(32)
	require.NoError(t, err)
	release()
}

func TestController_NilChecks(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	assert.NoError(t, c.AcquireIO(context.Background(), 10))

	release, err := c.Reserve(10)
	require.NoError(t, err)
	release()
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})
	require.NoError(t, c.AcquireIO(context.Background(), 100))

	unlimited := NewController(Config{})
	require.NoError(t, unlimited.AcquireIO(context.Background(), 1_000_000))
}

func TestRateLimitedReader(t *testing.T) {
	payload := strings.Repeat("x", 4096)

	t.Run("unlimited passes through", func(t *testing.T) {
		src := strings.NewReader(payload)
		r := NewRateLimitedReader(context.Background(), src, NewController(Config{}))
		assert.Same(t, src, r)
	})

	t.Run("reads larger than burst are split", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
		r := NewRateLimitedReader(context.Background(), strings.NewReader(payload), c)

		var buf bytes.Buffer
		_, err := io.Copy(&buf, r)
		require.NoError(t, err)
		assert.Equal(t, payload, buf.String())
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 1})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewRateLimitedReader(ctx, strings.NewReader(payload), c)
		_, err := io.ReadAll(r)
		assert.Error(t, err)
	})
}

func TestSystemMemory(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("system memory probe is linux-only")
	}
	mem, err := SystemMemory()
	require.NoError(t, err)
	assert.Positive(t, mem)
}
