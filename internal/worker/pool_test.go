package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PJhaveri02/Booking-Service/internal/metrics"
)

func TestPool_RunsTasks(t *testing.T) {
	p := NewPool(3, 10, nil)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func(context.Context) {
			defer wg.Done()
			ran.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(10), ran.Load())
	require.NoError(t, p.Close(context.Background()))
}

func TestPool_BoundedQueue(t *testing.T) {
	m := metrics.Nop()
	p := NewPool(1, 1, m)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	// the single worker is busy, one slot remains in the queue
	require.NoError(t, p.Submit(func(context.Context) {}))
	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrQueueFull)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WorkerTasksTotal.WithLabelValues("rejected")))

	close(release)
	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.WorkerTasksTotal.WithLabelValues("accepted")))
}

func TestPool_Close(t *testing.T) {
	t.Run("drains queued tasks", func(t *testing.T) {
		p := NewPool(1, 5, nil)
		var ran atomic.Int32
		for i := 0; i < 5; i++ {
			require.NoError(t, p.Submit(func(context.Context) {
				time.Sleep(time.Millisecond)
				ran.Add(1)
			}))
		}
		require.NoError(t, p.Close(context.Background()))
		assert.Equal(t, int32(5), ran.Load())
		assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrPoolClosed)
		assert.NoError(t, p.Close(context.Background()), "second close is a no-op")
	})

	t.Run("gives up at deadline and cancels tasks", func(t *testing.T) {
		p := NewPool(1, 1, nil)
		cancelled := make(chan struct{})
		require.NoError(t, p.Submit(func(ctx context.Context) {
			<-ctx.Done()
			close(cancelled)
		}))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("task context was not cancelled")
		}
	})
}

func TestPool_RecoversPanics(t *testing.T) {
	m := metrics.Nop()
	p := NewPool(1, 2, m)

	done := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after panic")
	}
	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WorkerTasksTotal.WithLabelValues("panicked")))
}
