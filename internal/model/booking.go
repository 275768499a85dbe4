package model

import "time"

// Booking mirrors a row of the `bookings` table. Seats holds the exact
// set of seats claimed together; every seat shares Date. A booking is
// never modified after it is created.
type Booking struct {
	ID        uint64    `db:"id"`
	UserID    uint64    `db:"user_id"`
	ConcertID uint64    `db:"concert_id"`
	Date      time.Time `db:"date"`
	CreatedAt time.Time `db:"created_at"`
	Seats     []Seat    `db:"-"`
}

// SeatLabels returns the labels of the booked seats in booking order.
func (b Booking) SeatLabels() []string {
	out := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		out = append(out, s.Label)
	}
	return out
}
