package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

type seatKey struct {
	date  int64
	label string
}

// MemoryStore keeps seats, bookings and the concert schedule in process
// memory. It offers the same exclusive acquisition as SeatRepo: a booking
// transaction holds a mutex per (date, label) from LockSeats until it
// finishes, and locks are always taken in label order.
type MemoryStore struct {
	mu        sync.RWMutex
	schedule  map[uint64]map[int64]struct{}
	seats     map[seatKey]*model.Seat
	seatsByID map[uint64]*model.Seat
	bookings  map[uint64]*model.Booking
	nextSeat  uint64
	nextBook  uint64

	rowLocks sync.Map // seatKey -> *sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schedule:  map[uint64]map[int64]struct{}{},
		seats:     map[seatKey]*model.Seat{},
		seatsByID: map[uint64]*model.Seat{},
		bookings:  map[uint64]*model.Booking{},
	}
}

// AddPerformance schedules concertID on date and lays out its seats when
// the date has none yet.
func (m *MemoryStore) AddPerformance(concertID uint64, date time.Time) {
	date = model.NormalizeDate(date)
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schedule[concertID] == nil {
		m.schedule[concertID] = map[int64]struct{}{}
	}
	m.schedule[concertID][date.Unix()] = struct{}{}

	for _, s := range model.TheatreLayout(date) {
		k := seatKey{date.Unix(), s.Label}
		if _, ok := m.seats[k]; ok {
			continue
		}
		m.nextSeat++
		seat := s
		seat.ID = m.nextSeat
		m.seats[k] = &seat
		m.seatsByID[seat.ID] = &seat
	}
}

func (m *MemoryStore) IsScheduled(_ context.Context, concertID uint64, date time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.schedule[concertID][model.NormalizeDate(date).Unix()]
	return ok, nil
}

func (m *MemoryStore) CountBooked(_ context.Context, date time.Time) (int, error) {
	day := model.NormalizeDate(date).Unix()
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for k, s := range m.seats {
		if k.date == day && s.IsBooked {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ListByDate(_ context.Context, date time.Time, status model.SeatStatus) ([]model.Seat, error) {
	day := model.NormalizeDate(date).Unix()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.Seat{}
	for k, s := range m.seats {
		if k.date != day {
			continue
		}
		if (status == model.SeatStatusBooked && !s.IsBooked) || (status == model.SeatStatusUnbooked && s.IsBooked) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	cp.Seats = append([]model.Seat(nil), b.Seats...)
	return &cp, nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.Booking{}
	for _, b := range m.bookings {
		if b.UserID == userID {
			cp := *b
			cp.Seats = append([]model.Seat(nil), b.Seats...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) BeginBooking(_ context.Context) (SeatTx, error) {
	return &memoryTx{store: m}, nil
}

func (m *MemoryStore) rowLock(k seatKey) *sync.Mutex {
	v, _ := m.rowLocks.LoadOrStore(k, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// memoryTx stages its writes and applies them on Commit.
type memoryTx struct {
	store   *MemoryStore
	held    []*sync.Mutex
	locked  map[seatKey]struct{}
	booking *model.Booking
	marked  []uint64
	done    bool
}

func (t *memoryTx) LockSeats(ctx context.Context, date time.Time, labels []string) ([]model.Seat, error) {
	if t.done {
		return nil, sql.ErrTxDone
	}
	day := model.NormalizeDate(date).Unix()

	// only existing seats get a row lock; unknown labels are simply absent
	// from the result
	t.store.mu.RLock()
	sorted := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, ok := t.store.seats[seatKey{day, label}]; ok {
			sorted = append(sorted, label)
		}
	}
	t.store.mu.RUnlock()
	sort.Strings(sorted)
	if t.locked == nil {
		t.locked = map[seatKey]struct{}{}
	}
	for _, label := range sorted {
		k := seatKey{day, label}
		if _, ok := t.locked[k]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mu := t.store.rowLock(k)
		mu.Lock()
		t.held = append(t.held, mu)
		t.locked[k] = struct{}{}
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	var out []model.Seat
	for _, label := range sorted {
		if s, ok := t.store.seats[seatKey{day, label}]; ok {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memoryTx) CreateBooking(_ context.Context, b *model.Booking) error {
	if t.done {
		return sql.ErrTxDone
	}
	t.store.mu.Lock()
	t.store.nextBook++
	b.ID = t.store.nextBook
	t.store.mu.Unlock()
	cp := *b
	t.booking = &cp
	return nil
}

func (t *memoryTx) MarkBooked(_ context.Context, bookingID uint64, seatIDs []uint64) error {
	if t.done {
		return sql.ErrTxDone
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	for _, id := range seatIDs {
		s, ok := t.store.seatsByID[id]
		if !ok || s.IsBooked {
			return ErrSeatsUnavailable
		}
		if _, held := t.locked[seatKey{s.Date.Unix(), s.Label}]; !held {
			return ErrSeatsUnavailable
		}
	}
	t.marked = append(t.marked, seatIDs...)
	return nil
}

func (t *memoryTx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	defer t.release()

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.booking == nil {
		return nil
	}
	booking := t.booking
	booking.Seats = booking.Seats[:0]
	for _, id := range t.marked {
		s := t.store.seatsByID[id]
		bookingID := booking.ID
		s.IsBooked = true
		s.BookingID = &bookingID
		booking.Seats = append(booking.Seats, *s)
	}
	t.store.bookings[booking.ID] = booking
	return nil
}

func (t *memoryTx) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.release()
	return nil
}

func (t *memoryTx) release() {
	t.done = true
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}
