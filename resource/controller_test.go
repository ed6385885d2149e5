package resource

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.ReserveMemory(60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	err := c.ReserveMemory(50)
	assert.ErrorIs(t, err, ErrMemoryLimit)
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.ReserveMemory(100))
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.ReserveMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.ReserveMemory(10))
	c.ReleaseMemory(10)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
	assert.Equal(t, 1, c.Config().MaxConcurrentUploads)
}

func TestController_Defaults(t *testing.T) {
	c := NewController(Config{MaxConcurrentUploads: -3})
	assert.Equal(t, 1, c.Config().MaxConcurrentUploads)
}

func TestController_AcquireIO_SplitsLargeRequests(t *testing.T) {
	c := NewController(Config{UploadBytesPerSec: 1 << 20})

	// Larger than the burst; a single WaitN would fail.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.AcquireIO(ctx, 3<<19))
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{UploadBytesPerSec: 1 << 20})
	src := bytes.Repeat([]byte("x"), 4096)

	got, err := io.ReadAll(NewRateLimitedReader(context.Background(), bytes.NewReader(src), c))
	require.NoError(t, err)
	assert.Equal(t, src, got)

	got, err = io.ReadAll(NewRateLimitedReader(context.Background(), bytes.NewReader(src), nil))
	require.NoError(t, err)
	assert.Len(t, got, 4096)
}
