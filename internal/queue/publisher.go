package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/logger"
)

var (
	// ErrBrokerUnavailable is returned without dialing while another
	// publish is connecting or a failed dial is still backing off.
	ErrBrokerUnavailable = errors.New("broker unavailable")
	ErrPublisherClosed   = errors.New("publisher closed")
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultRetryDelay  = 2 * time.Second
)

// Publisher publishes booking events on BookingsExchange. It keeps one
// connection and channel and re-dials after any failure. Dialing is
// bounded by the caller's deadline and happens outside the lock, so a
// stalled broker fails publishes fast instead of queueing them.
type Publisher struct {
	url         string
	dialTimeout time.Duration
	retryDelay  time.Duration
	now         func() time.Time

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	dialing bool
	retryAt time.Time
	closed  bool
}

func NewPublisher(url string) *Publisher {
	return &Publisher{
		url:         url,
		dialTimeout: defaultDialTimeout,
		retryDelay:  defaultRetryDelay,
		now:         time.Now,
	}
}

// PublishBookingCreated publishes ev as a persistent JSON message.
func (p *Publisher) PublishBookingCreated(ctx context.Context, ev BookingCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		BookingsExchange, // exchange
		"",               // routing key, ignored by fanout
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.discard(ch)
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the connection. Later publishes fail with
// ErrPublisherClosed.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn, p.ch = nil, nil
	return err
}

// channel returns the open channel or dials a new one. Only one caller
// dials at a time; the others get ErrBrokerUnavailable.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	p.mu.Lock()
	switch {
	case p.closed:
		p.mu.Unlock()
		return nil, ErrPublisherClosed
	case p.ch != nil && !p.ch.IsClosed():
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	case p.dialing || p.now().Before(p.retryAt):
		p.mu.Unlock()
		return nil, ErrBrokerUnavailable
	}
	p.reset()
	p.dialing = true
	p.mu.Unlock()

	conn, ch, err := p.dial(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.retryAt = p.now().Add(p.retryDelay)
		return nil, err
	}
	if p.closed {
		_ = conn.Close()
		return nil, ErrPublisherClosed
	}
	p.conn, p.ch = conn, ch
	logger.Info("rabbitmq publisher connected", zap.String("exchange", BookingsExchange))
	return ch, nil
}

// dial connects within the caller's deadline, capped at dialTimeout.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	timeout := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, nil, fmt.Errorf("dial broker: %w", context.DeadlineExceeded)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareExchange(ch); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// discard drops ch after a failed publish unless a newer channel already
// replaced it.
func (p *Publisher) discard(ch *amqp.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		p.reset()
	}
}

// reset closes the current connection. Callers hold mu.
func (p *Publisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func declareExchange(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		BookingsExchange, // name
		amqp.ExchangeFanout,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	return nil
}
