package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

const seatColumns = "id, label, date, price_cents, is_booked, booking_id"

// SeatRepo stores seats in MySQL. Booking transactions rely on InnoDB
// row locks taken with SELECT ... FOR UPDATE.
type SeatRepo struct{ DB *sqlx.DB }

func NewSeatRepo(db *sqlx.DB) *SeatRepo { return &SeatRepo{DB: db} }

// BeginBooking starts a transaction for one reservation.
func (r *SeatRepo) BeginBooking(ctx context.Context) (SeatTx, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	return &seatTx{tx: tx}, nil
}

// CountBooked counts the booked seats of date.
func (r *SeatRepo) CountBooked(ctx context.Context, date time.Time) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM seats WHERE date = ? AND is_booked = 1",
		model.NormalizeDate(date))
	return n, err
}

// ListByDate lists the seats of date ordered by id.
func (r *SeatRepo) ListByDate(ctx context.Context, date time.Time, status model.SeatStatus) ([]model.Seat, error) {
	q := "SELECT " + seatColumns + " FROM seats WHERE date = ?"
	switch status {
	case model.SeatStatusBooked:
		q += " AND is_booked = 1"
	case model.SeatStatusUnbooked:
		q += " AND is_booked = 0"
	}
	q += " ORDER BY id"

	seats := []model.Seat{}
	if err := r.DB.SelectContext(ctx, &seats, q, model.NormalizeDate(date)); err != nil {
		return nil, err
	}
	return seats, nil
}

// EnsureLayout inserts the theatre layout for date, skipping seats that
// already exist. It returns the number of seats created.
func (r *SeatRepo) EnsureLayout(ctx context.Context, date time.Time) (int64, error) {
	res, err := r.DB.NamedExecContext(ctx,
		`INSERT IGNORE INTO seats (label, date, price_cents, is_booked)
		 VALUES (:label, :date, :price_cents, :is_booked)`,
		model.TheatreLayout(date))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type seatTx struct{ tx *sqlx.Tx }

func (t *seatTx) LockSeats(ctx context.Context, date time.Time, labels []string) ([]model.Seat, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(
		"SELECT "+seatColumns+" FROM seats WHERE date = ? AND label IN (?) ORDER BY id FOR UPDATE",
		model.NormalizeDate(date), labels)
	if err != nil {
		return nil, err
	}
	var seats []model.Seat
	if err := t.tx.SelectContext(ctx, &seats, t.tx.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("lock seats: %w", err)
	}
	return seats, nil
}

func (t *seatTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, concert_id, date, created_at) VALUES (?,?,?,?)",
		b.UserID, b.ConcertID, model.NormalizeDate(b.Date), b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (t *seatTx) MarkBooked(ctx context.Context, bookingID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	q, args, err := sqlx.In(
		"UPDATE seats SET is_booked = 1, booking_id = ? WHERE id IN (?) AND is_booked = 0",
		bookingID, seatIDs)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(q), args...)
	if err != nil {
		return fmt.Errorf("mark seats booked: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(seatIDs)) {
		return ErrSeatsUnavailable
	}
	return nil
}

func (t *seatTx) Commit() error   { return t.tx.Commit() }
func (t *seatTx) Rollback() error { return t.tx.Rollback() }
