package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
)

// Submitter runs tasks asynchronously on bounded resources.
// *worker.Pool implements it.
type Submitter interface {
	Submit(task func(ctx context.Context)) error
}

const defaultRunTimeout = 10 * time.Second

// Dispatcher evaluates pending notifications of a performance date
// against its occupancy.
type Dispatcher struct {
	registry   *Registry
	seats      repository.SeatCounter
	tasks      Submitter
	capacity   int
	runTimeout time.Duration
	metrics    *metrics.Metrics

	queued sync.Map // int64 -> struct{}, runs submitted but not started
	missed sync.Map // int64 -> time.Time, runs the pool refused
}

func NewDispatcher(registry *Registry, seats repository.SeatCounter, tasks Submitter, m *metrics.Metrics) *Dispatcher {
	if m == nil {
		m = metrics.Nop()
	}
	return &Dispatcher{
		registry:   registry,
		seats:      seats,
		tasks:      tasks,
		capacity:   model.TheatreCapacity,
		runTimeout: defaultRunTimeout,
		metrics:    m,
	}
}

// Trigger schedules a run for date without waiting for it. While a run
// for date is queued and not yet started further triggers are absorbed by
// it, since the run reads the booked count only once it starts.
func (d *Dispatcher) Trigger(date time.Time) {
	date = model.NormalizeDate(date)
	key := date.Unix()
	if _, loaded := d.queued.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	err := d.tasks.Submit(func(ctx context.Context) {
		d.queued.Delete(key)
		ctx, cancel := context.WithTimeout(ctx, d.runTimeout)
		defer cancel()
		if _, err := d.Run(ctx, date); err != nil {
			logger.Error("notification dispatch failed", zap.Time("date", date), zap.Error(err))
		}
	})
	if err != nil {
		d.queued.Delete(key)
		d.missed.Store(key, date)
		logger.Warn("notification dispatch not scheduled", zap.Time("date", date), zap.Error(err))
	}
}

// Run resolves every pending notification of date whose threshold is met
// and requeues the others. It returns the number of notifications it
// resolved.
func (d *Dispatcher) Run(ctx context.Context, date time.Time) (int, error) {
	date = model.NormalizeDate(date)
	ctx, span := tracer.Start(ctx, "Dispatcher.Run", trace.WithAttributes(
		attribute.String("performance.date", model.FormatDate(date)),
	))
	defer span.End()

	resolved := 0
	defer func() {
		if resolved > 0 {
			d.metrics.NotificationsTotal.WithLabelValues("resolved").Add(float64(resolved))
		}
		span.SetAttributes(attribute.Int("notifications.resolved", resolved))
	}()

	// A pass repeats only when the booked count grew while it ran, so the
	// number of passes is bounded by the capacity.
	for pass := 0; pass <= d.capacity; pass++ {
		pending := d.registry.DrainPending(date)
		if len(pending) == 0 {
			break
		}
		booked, err := d.seats.CountBooked(ctx, date)
		if err != nil {
			d.registry.Requeue(date, pending)
			d.metrics.DispatchRunsTotal.WithLabelValues("error").Inc()
			span.RecordError(err)
			return resolved, fmt.Errorf("count booked seats: %w", err)
		}
		percent := booked * 100 / d.capacity
		remaining := d.capacity - booked

		waiting := make([]*PendingNotification, 0, len(pending))
		for _, p := range pending {
			if percent >= p.Threshold {
				if p.Resolve(remaining) {
					resolved++
				}
				continue
			}
			waiting = append(waiting, p)
		}
		logger.Debug("notification pass",
			zap.Time("date", date),
			zap.Int("booked", booked),
			zap.Int("resolved", len(pending)-len(waiting)),
			zap.Int("waiting", len(waiting)))
		if len(waiting) == 0 {
			break
		}
		d.registry.Requeue(date, waiting)

		// A booking committed while this pass ran may have seen an empty
		// registry; recount so that its occupancy is not missed.
		after, err := d.seats.CountBooked(ctx, date)
		if err != nil || after == booked {
			break
		}
	}
	d.metrics.DispatchRunsTotal.WithLabelValues("ok").Inc()
	return resolved, nil
}

// Sweep expires overdue subscriptions and retries runs the worker pool
// refused earlier. It implements worker.SubscriptionSweeper.
func (d *Dispatcher) Sweep(now time.Time) (expired, pending int) {
	expired, pending = d.registry.Sweep(now)
	d.missed.Range(func(k, v any) bool {
		d.missed.Delete(k)
		d.Trigger(v.(time.Time))
		return true
	})
	return expired, pending
}
