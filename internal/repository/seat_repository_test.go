package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

var perfDate = time.Date(2026, 11, 20, 20, 0, 0, 0, time.UTC)

func seatRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "label", "date", "price_cents", "is_booked", "booking_id"})
}

func TestSeatRepo_BookingTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("locks, books and commits", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSeatRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM seats WHERE date = \? AND label IN \(\?, \?\) ORDER BY id FOR UPDATE`).
			WithArgs(perfDate, "A1", "A2").
			WillReturnRows(seatRows().
				AddRow(1, "A1", perfDate, 25000, false, nil).
				AddRow(2, "A2", perfDate, 25000, false, nil))
		mock.ExpectExec(`INSERT INTO bookings`).
			WithArgs(7, 3, perfDate, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectExec(`UPDATE seats SET is_booked = 1, booking_id = \? WHERE id IN \(\?, \?\) AND is_booked = 0`).
			WithArgs(42, 1, 2).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		tx, err := repo.BeginBooking(ctx)
		require.NoError(t, err)
		seats, err := tx.LockSeats(ctx, perfDate, []string{"A1", "A2"})
		require.NoError(t, err)
		require.Len(t, seats, 2)
		assert.Equal(t, "A1", seats[0].Label)
		assert.Nil(t, seats[0].BookingID)

		b := &model.Booking{UserID: 7, ConcertID: 3, Date: perfDate, CreatedAt: time.Now().UTC()}
		require.NoError(t, tx.CreateBooking(ctx, b))
		assert.Equal(t, uint64(42), b.ID)
		require.NoError(t, tx.MarkBooked(ctx, b.ID, []uint64{1, 2}))
		require.NoError(t, tx.Commit())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("partial update is reported as unavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSeatRepo(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE seats SET is_booked = 1`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		tx, err := repo.BeginBooking(ctx)
		require.NoError(t, err)
		err = tx.MarkBooked(ctx, 9, []uint64{1, 2})
		assert.ErrorIs(t, err, ErrSeatsUnavailable)
		require.NoError(t, tx.Rollback())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty label set touches nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSeatRepo(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := repo.BeginBooking(ctx)
		require.NoError(t, err)
		seats, err := tx.LockSeats(ctx, perfDate, nil)
		require.NoError(t, err)
		assert.Empty(t, seats)
		require.NoError(t, tx.Rollback())

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatRepo_CountBooked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seats WHERE date = \? AND is_booked = 1`).
		WithArgs(perfDate).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))

	n, err := repo.CountBooked(context.Background(), perfDate)
	require.NoError(t, err)
	assert.Equal(t, 60, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepo_ListByDate(t *testing.T) {
	tests := []struct {
		name   string
		status model.SeatStatus
		query  string
	}{
		{"booked", model.SeatStatusBooked, `FROM seats WHERE date = \? AND is_booked = 1 ORDER BY id`},
		{"unbooked", model.SeatStatusUnbooked, `FROM seats WHERE date = \? AND is_booked = 0 ORDER BY id`},
		{"any", model.SeatStatusAny, `FROM seats WHERE date = \? ORDER BY id`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSeatRepo(db)

			bookingID := uint64(5)
			mock.ExpectQuery(tt.query).
				WithArgs(perfDate).
				WillReturnRows(seatRows().AddRow(1, "A1", perfDate, 25000, true, bookingID))

			seats, err := repo.ListByDate(context.Background(), perfDate, tt.status)
			require.NoError(t, err)
			require.Len(t, seats, 1)
			require.NotNil(t, seats[0].BookingID)
			assert.Equal(t, bookingID, *seats[0].BookingID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSeatRepo_EnsureLayout(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepo(db)

	mock.ExpectExec(`INSERT IGNORE INTO seats \(label, date, price_cents, is_booked\)`).
		WillReturnResult(sqlmock.NewResult(0, int64(model.TheatreCapacity)))

	n, err := repo.EnsureLayout(context.Background(), perfDate)
	require.NoError(t, err)
	assert.Equal(t, int64(model.TheatreCapacity), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
