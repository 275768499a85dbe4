package service

import (
	"context"
	"testing"
	"time"

	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
)

var (
	showDate  = time.Date(2026, 11, 20, 20, 0, 0, 0, time.UTC)
	otherDate = time.Date(2026, 11, 21, 20, 0, 0, 0, time.UTC)
)

const concertID = 1

// inlineSubmitter runs every task on the calling goroutine.
type inlineSubmitter struct{}

func (inlineSubmitter) Submit(task func(ctx context.Context)) error {
	task(context.Background())
	return nil
}

// heldSubmitter keeps tasks until the test runs them.
type heldSubmitter struct {
	tasks []func(ctx context.Context)
	err   error
}

func (h *heldSubmitter) Submit(task func(ctx context.Context)) error {
	if h.err != nil {
		return h.err
	}
	h.tasks = append(h.tasks, task)
	return nil
}

func (h *heldSubmitter) runAll() {
	tasks := h.tasks
	h.tasks = nil
	for _, t := range tasks {
		t(context.Background())
	}
}

type countFunc func(ctx context.Context, date time.Time) (int, error)

func (f countFunc) CountBooked(ctx context.Context, date time.Time) (int, error) { return f(ctx, date) }

func fixedCount(n int) countFunc {
	return func(context.Context, time.Time) (int, error) { return n, nil }
}

type fixture struct {
	store        *repository.MemoryStore
	registry     *Registry
	dispatcher   *Dispatcher
	reservations *ReservationService
	subs         *SubscriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	store.AddPerformance(concertID, showDate)
	registry := NewRegistry()
	t.Cleanup(registry.Close)
	dispatcher := NewDispatcher(registry, store, inlineSubmitter{}, nil)
	return &fixture{
		store:        store,
		registry:     registry,
		dispatcher:   dispatcher,
		reservations: NewReservationService(store, store, dispatcher, nil),
		subs:         NewSubscriptionService(store, registry, time.Minute, nil),
	}
}

// labels returns the first n labels of the theatre layout.
func labels(n int) []string {
	layout := model.TheatreLayout(showDate)
	out := make([]string, 0, n)
	for _, s := range layout[:n] {
		out = append(out, s.Label)
	}
	return out
}

func (f *fixture) booked(t *testing.T) int {
	t.Helper()
	n, err := f.store.CountBooked(context.Background(), showDate)
	if err != nil {
		t.Fatalf("count booked: %v", err)
	}
	return n
}
