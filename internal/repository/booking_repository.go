package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

const bookingColumns = "id, user_id, concert_id, date, created_at"

// BookingRepo reads committed bookings. Bookings are written only by a
// SeatTx as part of a reservation.
type BookingRepo struct{ DB *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{DB: db} }

// GetByID returns the booking with its seats or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.DB.GetContext(ctx, &b, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	seats, err := r.seatsOf(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	b.Seats = seats[id]
	return &b, nil
}

// ListByUser returns every booking of userID, oldest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	bookings := []model.Booking{}
	if err := r.DB.SelectContext(ctx, &bookings,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY id", userID); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}
	ids := make([]uint64, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	seats, err := r.seatsOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Seats = seats[bookings[i].ID]
	}
	return bookings, nil
}

func (r *BookingRepo) seatsOf(ctx context.Context, bookingIDs []uint64) (map[uint64][]model.Seat, error) {
	q, args, err := sqlx.In("SELECT "+seatColumns+" FROM seats WHERE booking_id IN (?) ORDER BY id", bookingIDs)
	if err != nil {
		return nil, err
	}
	var seats []model.Seat
	if err := r.DB.SelectContext(ctx, &seats, r.DB.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make(map[uint64][]model.Seat, len(bookingIDs))
	for _, s := range seats {
		if s.BookingID != nil {
			out[*s.BookingID] = append(out[*s.BookingID], s)
		}
	}
	return out, nil
}
