package resource

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController(t *testing.T) {
	t.Run("NilEnforcesNothing", func(t *testing.T) {
		var c *Controller
		require.NoError(t, c.AcquireWorker(context.Background()))
		c.ReleaseWorker()
		require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
		assert.Equal(t, 1, c.MaxWorkers())
	})

	t.Run("WorkerSlots", func(t *testing.T) {
		c := NewController(Config{MaxWorkers: 2})

		require.NoError(t, c.AcquireWorker(context.Background()))
		require.NoError(t, c.AcquireWorker(context.Background()))
		assert.False(t, c.TryAcquireWorker())

		c.ReleaseWorker()
		assert.True(t, c.TryAcquireWorker())
		c.ReleaseWorker()
		c.ReleaseWorker()
	})

	t.Run("UnlimitedIO", func(t *testing.T) {
		c := NewController(Config{MaxWorkers: 1})
		require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
	})

	t.Run("RateLimitedWriter", func(t *testing.T) {
		c := NewController(Config{MaxWorkers: 1, IOLimitBytesPerSec: 1 << 20})
		var buf bytes.Buffer
		w := NewRateLimitedWriter(context.Background(), &buf, c)

		n, err := w.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "hello", buf.String())
	})

	t.Run("ReaderChargesBytesRead", func(t *testing.T) {
		// Budget equals the payload; a large destination buffer must debit
		// only the bytes actually read, or this read would stall waiting
		// for a 512-byte allowance.
		c := NewController(Config{MaxWorkers: 1, IOLimitBytesPerSec: 8})
		r := NewRateLimitedReader(context.Background(), strings.NewReader("8 bytes!"), c)

		buf := make([]byte, 512)
		n, err := r.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, 8, n)
		assert.Equal(t, "8 bytes!", string(buf[:n]))
	})

	t.Run("CanceledContext", func(t *testing.T) {
		c := NewController(Config{MaxWorkers: 1})
		require.NoError(t, c.AcquireWorker(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, c.AcquireWorker(ctx))
		c.ReleaseWorker()
	})
}
