// Package worker runs background work: a bounded task pool and periodic
// maintenance loops.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
)

var (
	ErrQueueFull  = errors.New("worker pool queue is full")
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Pool executes submitted tasks on a fixed number of goroutines. At most
// queueSize tasks wait for a free worker; Submit never blocks.
type Pool struct {
	tasks   chan func(ctx context.Context)
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	metrics *metrics.Metrics
}

// NewPool starts workers goroutines. Tasks receive a context that is
// cancelled when Close gives up waiting.
func NewPool(workers, queueSize int, m *metrics.Metrics) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if m == nil {
		m = metrics.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:   make(chan func(ctx context.Context), queueSize),
		ctx:     ctx,
		cancel:  cancel,
		metrics: m,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

// Submit queues task. It returns ErrQueueFull when every queue slot is
// taken and ErrPoolClosed after Close.
func (p *Pool) Submit(task func(ctx context.Context)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		p.metrics.WorkerTasksTotal.WithLabelValues("accepted").Inc()
		return nil
	default:
		p.metrics.WorkerTasksTotal.WithLabelValues("rejected").Inc()
		return ErrQueueFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish. When
// ctx ends first the task context is cancelled and ctx.Err is returned.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	defer p.cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.WorkerTasksTotal.WithLabelValues("panicked").Inc()
			logger.Error("worker task panicked", zap.Error(fmt.Errorf("%v", r)))
		}
	}()
	task(p.ctx)
}
