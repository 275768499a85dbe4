// Package queue carries booking events between service instances over
// RabbitMQ.
package queue

import (
	"time"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

// BookingsExchange is the fanout exchange every instance publishes booking
// events to and consumes them from.
const BookingsExchange = "concert.bookings"

// BookingCreatedEvent is published after a reservation commits. Origin
// identifies the publishing instance so it can skip its own events.
type BookingCreatedEvent struct {
	BookingID uint64   `json:"booking_id"`
	UserID    uint64   `json:"user_id"`
	ConcertID uint64   `json:"concert_id"`
	Date      string   `json:"date"`
	Seats     []string `json:"seats"`
	Origin    string   `json:"origin"`
	CreatedAt string   `json:"created_at"`
}

// NewBookingCreatedEvent builds the event for a committed booking.
func NewBookingCreatedEvent(b *model.Booking, origin string) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID: b.ID,
		UserID:    b.UserID,
		ConcertID: b.ConcertID,
		Date:      model.FormatDate(b.Date),
		Seats:     b.SeatLabels(),
		Origin:    origin,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
