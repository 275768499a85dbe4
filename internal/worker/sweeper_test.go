package worker

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/PJhaveri02/Booking-Service/internal/metrics"
)

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) Sweep(now time.Time) (int, int) {
	args := m.Called(now)
	return args.Int(0), args.Int(1)
}

func TestSweeper(t *testing.T) {
	t.Run("sweeps on every tick", func(t *testing.T) {
		target := new(MockSweeper)
		target.On("Sweep", mock.AnythingOfType("time.Time")).Return(2, 5)

		m := metrics.Nop()
		s := NewSweeper(target, 10*time.Millisecond, m)
		go s.Start(context.Background())

		assert.Eventually(t, func() bool {
			return testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("expired")) >= 2
		}, time.Second, 5*time.Millisecond)
		s.Stop()

		assert.Equal(t, float64(5), testutil.ToFloat64(m.PendingSubscriptions))
		target.AssertCalled(t, "Sweep", mock.AnythingOfType("time.Time"))
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		target := new(MockSweeper)
		target.On("Sweep", mock.Anything).Return(0, 0).Maybe()

		s := NewSweeper(target, time.Hour, nil)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			s.Start(ctx)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop")
		}
	})
}
