package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/queue"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
)

var tracer = otel.Tracer("github.com/PJhaveri02/Booking-Service/internal/service")

// Trigger schedules a notification evaluation for a performance date.
// *Dispatcher implements it.
type Trigger interface {
	Trigger(date time.Time)
}

// EventPublisher announces committed bookings to other instances.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

const publishTimeout = 5 * time.Second

type ReserveInput struct {
	ConcertID  uint64
	Date       time.Time
	SeatLabels []string
	UserID     uint64
}

// ReservationService books sets of seats atomically.
type ReservationService struct {
	catalog repository.Catalog
	seats   repository.SeatStore
	trigger Trigger
	metrics *metrics.Metrics

	publisher EventPublisher
	tasks     Submitter
	origin    string
}

type ReservationOption func(*ReservationService)

// WithEventPublisher publishes a BookingCreatedEvent tagged with origin
// after every commit. Publishing runs on tasks.
func WithEventPublisher(p EventPublisher, tasks Submitter, origin string) ReservationOption {
	return func(s *ReservationService) {
		s.publisher = p
		s.tasks = tasks
		s.origin = origin
	}
}

func NewReservationService(catalog repository.Catalog, seats repository.SeatStore, trigger Trigger, m *metrics.Metrics, opts ...ReservationOption) *ReservationService {
	if m == nil {
		m = metrics.Nop()
	}
	s := &ReservationService{catalog: catalog, seats: seats, trigger: trigger, metrics: m}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Reserve books every seat of in.SeatLabels on in.Date or none of them.
// Seats that are booked already or do not exist fail the whole request
// with ErrConflict.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (b *model.Booking, err error) {
	ctx, span := tracer.Start(ctx, "ReservationService.Reserve", trace.WithAttributes(
		attribute.Int64("concert.id", int64(in.ConcertID)),
		attribute.Int("seats.requested", len(in.SeatLabels)),
	))
	defer span.End()
	defer func() { s.record(span, err) }()

	if in.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	labels := normalizeLabels(in.SeatLabels)
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", ErrInvalidRequest)
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

	b, err = s.book(ctx, in.UserID, in.ConcertID, date, labels)
	if err != nil {
		return nil, err
	}

	logger.Info("booking created",
		zap.Uint64("booking_id", b.ID),
		zap.Uint64("user_id", b.UserID),
		zap.Time("date", date),
		zap.Strings("seats", labels))

	s.trigger.Trigger(date)
	s.publish(b)
	return b, nil
}

func (s *ReservationService) book(ctx context.Context, userID, concertID uint64, date time.Time, labels []string) (*model.Booking, error) {
	tx, err := s.seats.BeginBooking(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := tx.LockSeats(ctx, date, labels)
	if err != nil {
		return nil, fmt.Errorf("lock seats: %w", err)
	}
	free := make([]model.Seat, 0, len(locked))
	for _, seat := range locked {
		if !seat.IsBooked {
			free = append(free, seat)
		}
	}
	if len(free) < len(labels) {
		return nil, fmt.Errorf("%w: %d of %d requested seats available", ErrConflict, len(free), len(labels))
	}

	b := &model.Booking{
		UserID:    userID,
		ConcertID: concertID,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	ids := make([]uint64, len(free))
	for i := range free {
		ids[i] = free[i].ID
		free[i].IsBooked = true
		bid := b.ID
		free[i].BookingID = &bid
	}
	if err := tx.MarkBooked(ctx, b.ID, ids); err != nil {
		if errors.Is(err, repository.ErrSeatsUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("mark seats booked: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	committed = true

	b.Seats = free
	return b, nil
}

func (s *ReservationService) publish(b *model.Booking) {
	if s.publisher == nil || s.tasks == nil {
		return
	}
	ev := queue.NewBookingCreatedEvent(b, s.origin)
	err := s.tasks.Submit(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := s.publisher.PublishBookingCreated(ctx, ev); err != nil {
			logger.Warn("publish booking event failed", zap.Uint64("booking_id", ev.BookingID), zap.Error(err))
		}
	})
	if err != nil {
		logger.Warn("booking event dropped", zap.Uint64("booking_id", ev.BookingID), zap.Error(err))
	}
}

func (s *ReservationService) record(span trace.Span, err error) {
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrConflict):
		status = "conflict"
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnauthenticated):
		status = "invalid"
	default:
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("reservation.status", status))
	s.metrics.ReservationsTotal.WithLabelValues(status).Inc()
}

// normalizeLabels trims, upper-cases and de-duplicates labels, keeping the
// first occurrence order.
func normalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
