package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

// Registry maps performance dates to their pending notifications. Each
// date has its own bucket and mutex; no lock spans several dates.
//
// DrainPending swaps a bucket's list for an empty one, so an entry added
// concurrently lands either in the drained list or in the fresh one and is
// therefore seen by exactly one drainer.
type Registry struct {
	buckets sync.Map // int64 (unix seconds) -> *bucket
	closed  atomic.Bool
}

type bucket struct {
	mu      sync.Mutex
	pending []*PendingNotification
	evicted bool // removed from buckets by Sweep; writers must look up again
}

func NewRegistry() *Registry { return &Registry{} }

func dateKey(t time.Time) int64 { return model.NormalizeDate(t).Unix() }

func (r *Registry) bucket(date time.Time) *bucket {
	k := dateKey(date)
	if b, ok := r.buckets.Load(k); ok {
		return b.(*bucket)
	}
	b, _ := r.buckets.LoadOrStore(k, &bucket{})
	return b.(*bucket)
}

// lockBucket returns the live bucket of date with its mutex held.
func (r *Registry) lockBucket(date time.Time) *bucket {
	for {
		b := r.bucket(date)
		b.mu.Lock()
		if !b.evicted {
			return b
		}
		b.mu.Unlock()
	}
}

// Add registers p under p.Date.
func (r *Registry) Add(p *PendingNotification) error {
	b := r.lockBucket(p.Date)
	defer b.mu.Unlock()
	// checked under the bucket lock so Close cannot miss the entry
	if r.closed.Load() {
		return ErrRegistryClosed
	}
	b.pending = append(b.pending, p)
	return nil
}

// DrainPending removes and returns every unsettled entry of date.
func (r *Registry) DrainPending(date time.Time) []*PendingNotification {
	v, ok := r.buckets.Load(dateKey(date))
	if !ok {
		return nil
	}
	b := v.(*bucket)
	b.mu.Lock()
	drained := b.pending
	b.pending = nil
	b.mu.Unlock()
	return unsettled(drained)
}

// Requeue puts entries taken by DrainPending back under date. Settled
// entries are dropped. After Close the entries are expired instead.
func (r *Registry) Requeue(date time.Time, ps []*PendingNotification) {
	ps = unsettled(ps)
	if len(ps) == 0 {
		return
	}
	b := r.lockBucket(date)
	if !r.closed.Load() {
		b.pending = append(b.pending, ps...)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	for _, p := range ps {
		p.Expire()
	}
}

// Len returns the number of unsettled entries stored for date.
func (r *Registry) Len(date time.Time) int {
	v, ok := r.buckets.Load(dateKey(date))
	if !ok {
		return 0
	}
	b := v.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, p := range b.pending {
		if !p.Settled() {
			n++
		}
	}
	return n
}

// Sweep expires entries whose deadline is at or before now and evicts
// every settled entry. Dates left without entries are dropped. It returns
// how many entries it expired and how many remain pending across all
// dates.
func (r *Registry) Sweep(now time.Time) (expired, pending int) {
	r.buckets.Range(func(k, v any) bool {
		b := v.(*bucket)
		b.mu.Lock()
		kept := b.pending[:0]
		for _, p := range b.pending {
			if !p.Settled() && p.ExpiredAt(now) && p.Expire() {
				expired++
			}
			if !p.Settled() {
				kept = append(kept, p)
			}
		}
		for i := len(kept); i < len(b.pending); i++ {
			b.pending[i] = nil
		}
		b.pending = kept
		pending += len(kept)
		if len(kept) == 0 && r.buckets.CompareAndDelete(k, b) {
			b.evicted = true
		}
		b.mu.Unlock()
		return true
	})
	return expired, pending
}

// Close rejects further Adds and expires every stored entry. Entries a
// dispatcher run holds at that moment are expired when requeued.
func (r *Registry) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.buckets.Range(func(_, v any) bool {
		b := v.(*bucket)
		b.mu.Lock()
		drained := b.pending
		b.pending = nil
		b.mu.Unlock()
		for _, p := range drained {
			p.Expire()
		}
		return true
	})
}

func unsettled(ps []*PendingNotification) []*PendingNotification {
	out := ps[:0:0]
	for _, p := range ps {
		if !p.Settled() {
			out = append(out, p)
		}
	}
	return out
}
