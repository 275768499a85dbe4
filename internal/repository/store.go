package repository

import (
	"context"
	"time"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

// Catalog answers whether a concert is scheduled on a performance date.
type Catalog interface {
	IsScheduled(ctx context.Context, concertID uint64, date time.Time) (bool, error)
}

// SeatCounter reports the number of booked seats of a performance date.
type SeatCounter interface {
	CountBooked(ctx context.Context, date time.Time) (int, error)
}

// SeatStore opens booking transactions over seat rows.
type SeatStore interface {
	SeatCounter
	BeginBooking(ctx context.Context) (SeatTx, error)
}

// SeatTx is one atomic booking unit. LockSeats grants exclusive access to
// the matching rows until Commit or Rollback; a concurrent transaction
// locking any of the same (date, label) pairs blocks until then. Nothing
// written through the transaction is visible to others before Commit.
type SeatTx interface {
	// LockSeats returns the seats of date whose label is in labels,
	// booked or not. Unknown labels are simply absent from the result.
	LockSeats(ctx context.Context, date time.Time, labels []string) ([]model.Seat, error)
	// CreateBooking inserts b and sets b.ID.
	CreateBooking(ctx context.Context, b *model.Booking) error
	// MarkBooked flags the seats as booked by bookingID. It fails with
	// ErrSeatsUnavailable unless every seat was unbooked.
	MarkBooked(ctx context.Context, bookingID uint64, seatIDs []uint64) error
	Commit() error
	Rollback() error
}

// SeatLister lists the seats of a performance date filtered by status.
type SeatLister interface {
	ListByDate(ctx context.Context, date time.Time, status model.SeatStatus) ([]model.Seat, error)
}

// BookingReader loads committed bookings with their seats.
type BookingReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}
