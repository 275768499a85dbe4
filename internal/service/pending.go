package service

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle of a PendingNotification. Every state other
// than StatePending is terminal.
type State int32

const (
	StatePending State = iota
	StateResolved
	StateExpired
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateExpired:
		return "expired"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Notification is delivered exactly once through PendingNotification.Done.
type Notification struct {
	RemainingSeats int
	Expired        bool
}

// PendingNotification is a subscription waiting for a performance date to
// reach Threshold percent booked. The first call among Resolve, Expire
// and Cancel settles it; later calls return false.
type PendingNotification struct {
	ID        string
	UserID    uint64
	ConcertID uint64
	Date      time.Time
	Threshold int
	ExpiresAt time.Time

	state atomic.Int32
	done  chan Notification
}

// NewPendingNotification returns a pending handle. A zero expiresAt means
// the handle never expires on its own.
func NewPendingNotification(date time.Time, threshold int, expiresAt time.Time) *PendingNotification {
	return &PendingNotification{
		ID:        uuid.NewString(),
		Date:      date,
		Threshold: threshold,
		ExpiresAt: expiresAt,
		done:      make(chan Notification, 1),
	}
}

// Resolve settles the handle with the number of seats still available.
func (p *PendingNotification) Resolve(remainingSeats int) bool {
	return p.settle(StateResolved, Notification{RemainingSeats: remainingSeats})
}

// Expire settles the handle because its lifetime ended.
func (p *PendingNotification) Expire() bool {
	return p.settle(StateExpired, Notification{Expired: true})
}

// Cancel settles the handle because nobody waits for it any more.
func (p *PendingNotification) Cancel() bool {
	return p.settle(StateCancelled, Notification{})
}

// Done yields the single Notification and is then closed.
func (p *PendingNotification) Done() <-chan Notification { return p.done }

func (p *PendingNotification) State() State { return State(p.state.Load()) }

func (p *PendingNotification) Settled() bool { return p.State() != StatePending }

// ExpiredAt reports whether the handle's deadline is at or before now.
func (p *PendingNotification) ExpiredAt(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

func (p *PendingNotification) settle(to State, n Notification) bool {
	if !p.state.CompareAndSwap(int32(StatePending), int32(to)) {
		return false
	}
	p.done <- n
	close(p.done)
	return true
}
