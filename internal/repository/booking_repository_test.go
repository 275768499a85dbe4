package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "concert_id", "date", "created_at"})
}

func TestBookingRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found with seats", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepo(db)
		created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \?`).
			WithArgs(10).
			WillReturnRows(bookingRows().AddRow(10, 7, 1, perfDate, created))
		mock.ExpectQuery(`FROM seats WHERE booking_id IN \(\?\) ORDER BY id`).
			WithArgs(10).
			WillReturnRows(seatRows().
				AddRow(3, "A3", perfDate, 25000, true, 10).
				AddRow(4, "A4", perfDate, 25000, true, 10))

		b, err := repo.GetByID(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), b.UserID)
		assert.Equal(t, []string{"A3", "A4"}, b.SeatLabels())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepo(db)

		mock.ExpectQuery(`FROM bookings WHERE id = \?`).
			WithArgs(11).
			WillReturnRows(bookingRows())

		_, err := repo.GetByID(ctx, 11)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepo_ListByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("groups seats per booking", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepo(db)
		created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`FROM bookings WHERE user_id = \? ORDER BY id`).
			WithArgs(7).
			WillReturnRows(bookingRows().
				AddRow(1, 7, 1, perfDate, created).
				AddRow(2, 7, 1, perfDate, created))
		mock.ExpectQuery(`FROM seats WHERE booking_id IN \(\?, \?\)`).
			WithArgs(1, 2).
			WillReturnRows(seatRows().
				AddRow(1, "A1", perfDate, 25000, true, 1).
				AddRow(2, "B1", perfDate, 25000, true, 2).
				AddRow(3, "B2", perfDate, 25000, true, 2))

		list, err := repo.ListByUser(ctx, 7)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, []string{"A1"}, list[0].SeatLabels())
		assert.Equal(t, []string{"B1", "B2"}, list[1].SeatLabels())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no bookings skips seat query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepo(db)

		mock.ExpectQuery(`FROM bookings WHERE user_id = \?`).
			WithArgs(8).
			WillReturnRows(bookingRows())

		list, err := repo.ListByUser(ctx, 8)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
