package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
)

type SubscribeInput struct {
	ConcertID uint64
	Date      time.Time
	Threshold int
	UserID    uint64
}

// SubscriptionService validates subscription requests and registers
// them for the dispatcher.
type SubscriptionService struct {
	catalog  repository.Catalog
	registry *Registry
	ttl      time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewSubscriptionService returns a service whose handles expire ttl after
// registration. A ttl of zero disables expiry.
func NewSubscriptionService(catalog repository.Catalog, registry *Registry, ttl time.Duration, m *metrics.Metrics) *SubscriptionService {
	if m == nil {
		m = metrics.Nop()
	}
	return &SubscriptionService{
		catalog:  catalog,
		registry: registry,
		ttl:      ttl,
		metrics:  m,
		now:      time.Now,
	}
}

// Subscribe registers a pending notification for in.Date. The handle is
// resolved by the first dispatcher run after registration that sees the
// date at or above in.Threshold percent booked.
func (s *SubscriptionService) Subscribe(ctx context.Context, in SubscribeInput) (*PendingNotification, error) {
	if in.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if in.Threshold < 0 || in.Threshold > 100 {
		return nil, fmt.Errorf("%w: threshold %d outside 0..100", ErrInvalidRequest, in.Threshold)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: missing date", ErrInvalidRequest)
	}
	date := model.NormalizeDate(in.Date)

	ok, err := s.catalog.IsScheduled(ctx, in.ConcertID, date)
	if err != nil {
		return nil, fmt.Errorf("check schedule: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: concert %d is not scheduled on %s", ErrInvalidRequest, in.ConcertID, model.FormatDate(date))
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	p := NewPendingNotification(date, in.Threshold, expiresAt)
	p.UserID = in.UserID
	p.ConcertID = in.ConcertID

	if err := s.registry.Add(p); err != nil {
		return nil, err
	}
	s.metrics.NotificationsTotal.WithLabelValues("subscribed").Inc()
	logger.Debug("subscription registered",
		zap.String("subscription_id", p.ID),
		zap.Uint64("user_id", p.UserID),
		zap.Time("date", date),
		zap.Int("threshold", p.Threshold))
	return p, nil
}
