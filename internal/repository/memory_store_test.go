package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

func bookInMemory(t *testing.T, store *MemoryStore, labels ...string) (*model.Booking, bool) {
	t.Helper()
	ctx := context.Background()
	tx, err := store.BeginBooking(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	seats, err := tx.LockSeats(ctx, perfDate, labels)
	require.NoError(t, err)
	ids := make([]uint64, 0, len(seats))
	for _, s := range seats {
		if s.IsBooked {
			return nil, false
		}
		ids = append(ids, s.ID)
	}
	if len(ids) != len(labels) {
		return nil, false
	}
	b := &model.Booking{UserID: 1, ConcertID: 1, Date: perfDate}
	require.NoError(t, tx.CreateBooking(ctx, b))
	require.NoError(t, tx.MarkBooked(ctx, b.ID, ids))
	require.NoError(t, tx.Commit())
	return b, true
}

func TestMemoryStore_Schedule(t *testing.T) {
	store := NewMemoryStore()
	store.AddPerformance(1, perfDate)
	ctx := context.Background()

	ok, err := store.IsScheduled(ctx, 1, perfDate.In(time.FixedZone("NZDT", 13*3600)))
	require.NoError(t, err)
	assert.True(t, ok, "same instant in another zone is the same date")

	ok, err = store.IsScheduled(ctx, 1, perfDate.Add(24*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	seats, err := store.ListByDate(ctx, perfDate, model.SeatStatusAny)
	require.NoError(t, err)
	assert.Len(t, seats, model.TheatreCapacity)
}

func TestMemoryStore_CommitAndRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("commit books seats", func(t *testing.T) {
		store := NewMemoryStore()
		store.AddPerformance(1, perfDate)

		b, ok := bookInMemory(t, store, "A1", "A2")
		require.True(t, ok)

		n, err := store.CountBooked(ctx, perfDate)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := store.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"A1", "A2"}, got.SeatLabels())
		for _, s := range got.Seats {
			require.NotNil(t, s.BookingID)
			assert.Equal(t, b.ID, *s.BookingID)
		}

		booked, err := store.ListByDate(ctx, perfDate, model.SeatStatusBooked)
		require.NoError(t, err)
		assert.Len(t, booked, 2)
	})

	t.Run("rollback leaves state unchanged", func(t *testing.T) {
		store := NewMemoryStore()
		store.AddPerformance(1, perfDate)

		tx, err := store.BeginBooking(ctx)
		require.NoError(t, err)
		seats, err := tx.LockSeats(ctx, perfDate, []string{"B1"})
		require.NoError(t, err)
		b := &model.Booking{UserID: 1, ConcertID: 1, Date: perfDate}
		require.NoError(t, tx.CreateBooking(ctx, b))
		require.NoError(t, tx.MarkBooked(ctx, b.ID, []uint64{seats[0].ID}))
		require.NoError(t, tx.Rollback())

		n, err := store.CountBooked(ctx, perfDate)
		require.NoError(t, err)
		assert.Zero(t, n)
		_, err = store.GetByID(ctx, b.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Error(t, tx.Commit(), "finished transaction cannot commit")
	})

	t.Run("marking a booked seat fails", func(t *testing.T) {
		store := NewMemoryStore()
		store.AddPerformance(1, perfDate)
		_, ok := bookInMemory(t, store, "C1")
		require.True(t, ok)

		tx, err := store.BeginBooking(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()
		seats, err := tx.LockSeats(ctx, perfDate, []string{"C1"})
		require.NoError(t, err)
		require.Len(t, seats, 1)
		assert.True(t, seats[0].IsBooked)
		assert.ErrorIs(t, tx.MarkBooked(ctx, 99, []uint64{seats[0].ID}), ErrSeatsUnavailable)
	})
}

func TestMemoryStore_ConcurrentOverlappingBookings(t *testing.T) {
	store := NewMemoryStore()
	store.AddPerformance(1, perfDate)

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every request contains D1, half of them in reverse order
			labels := []string{"D1", "D2"}
			if i%2 == 0 {
				labels = []string{"D2", "D1"}
			}
			if _, ok := bookInMemory(t, store, labels...); ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	n, err := store.CountBooked(context.Background(), perfDate)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryStore_UnknownLabelsTakeNoLocks(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.AddPerformance(1, perfDate)

	tx, err := store.BeginBooking(ctx)
	require.NoError(t, err)
	seats, err := tx.LockSeats(ctx, perfDate, []string{"Z99", "A1", "NOPE"})
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, "A1", seats[0].Label)

	_, err = tx.LockSeats(ctx, perfDate.Add(24*time.Hour), []string{"A1"})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	locks := 0
	store.rowLocks.Range(func(k, _ any) bool {
		locks++
		assert.Equal(t, seatKey{perfDate.Unix(), "A1"}, k)
		return true
	})
	assert.Equal(t, 1, locks)
}
