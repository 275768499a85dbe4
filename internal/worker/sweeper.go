package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
)

// SubscriptionSweeper expires and evicts subscriptions whose deadline has
// passed.
type SubscriptionSweeper interface {
	Sweep(now time.Time) (expired, pending int)
}

// Sweeper calls SubscriptionSweeper.Sweep on every tick.
type Sweeper struct {
	target   SubscriptionSweeper
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSweeper(target SubscriptionSweeper, interval time.Duration, m *metrics.Metrics) *Sweeper {
	if m == nil {
		m = metrics.Nop()
	}
	return &Sweeper{
		target:   target,
		interval: interval,
		metrics:  m,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	logger.Info("subscription sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription sweeper stopped (context cancelled)")
			return
		case <-s.stopCh:
			logger.Info("subscription sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// Stop ends Start and waits for it to return.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Sweeper) sweep() {
	expired, pending := s.target.Sweep(s.now())
	s.metrics.PendingSubscriptions.Set(float64(pending))
	if expired > 0 {
		s.metrics.NotificationsTotal.WithLabelValues("expired").Add(float64(expired))
		logger.Info("expired subscriptions", zap.Int("expired", expired), zap.Int("pending", pending))
	}
}
