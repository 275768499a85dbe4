package model

import (
	"strings"
	"time"
)

// TheatreCapacity is the number of seats sold for every performance date.
const TheatreCapacity = 120

// Seat mirrors a row of the `seats` table. A seat is identified by its
// label within a performance date. IsBooked only ever moves from false
// to true, at which point BookingID references the owning booking.
type Seat struct {
	ID         uint64    `db:"id"`          // seats.id
	Label      string    `db:"label"`       // seats.label (e.g. "C7")
	Date       time.Time `db:"date"`        // seats.date, the performance date
	PriceCents uint32    `db:"price_cents"` // seats.price_cents
	IsBooked   bool      `db:"is_booked"`   // seats.is_booked
	BookingID  *uint64   `db:"booking_id"`  // seats.booking_id (NULL until booked)
}

// Price returns the seat price in currency units.
func (s Seat) Price() float64 { return float64(s.PriceCents) / 100 }

// SeatStatus filters seat listings.
type SeatStatus string

const (
	SeatStatusBooked   SeatStatus = "Booked"
	SeatStatusUnbooked SeatStatus = "Unbooked"
	SeatStatusAny      SeatStatus = "Any"
)

// ParseSeatStatus parses a status filter case-insensitively. An empty
// string means SeatStatusAny.
func ParseSeatStatus(s string) (SeatStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return SeatStatusAny, true
	case "booked":
		return SeatStatusBooked, true
	case "unbooked":
		return SeatStatusUnbooked, true
	}
	return "", false
}
