// Package rabbitmq publishes and drains post lifecycle events on a durable
// direct exchange.
//
// A Broker holds one long-lived connection and opens a channel per
// operation. The connection is re-dialled lazily when the server closes it.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/ports"
	"posttracker/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultDialTimeout bounds a single connection attempt.
	DefaultDialTimeout = 5 * time.Second

	dialAttempts = 3

	heldRequeueInterval  = 250 * time.Millisecond
	inFlightDrainTimeout = 2 * time.Second
)

// Binding ties a queue to the exchange under a routing key.
type Binding struct {
	Queue      string
	RoutingKey string
}

// Topology is declared on every (re)connect. Declarations are idempotent.
type Topology struct {
	Exchange string
	Bindings []Binding
}

// Broker implements ports.MessagePublisher and ports.MessageConsumer.
type Broker struct {
	url         string
	topology    Topology
	dialTimeout time.Duration
	logger      *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewBroker creates a broker. No connection is made until the first
// operation or an explicit Connect.
func NewBroker(url string, topology Topology, dialTimeout time.Duration, logger *slog.Logger) *Broker {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &Broker{
		url:         url,
		topology:    topology,
		dialTimeout: dialTimeout,
		logger:      logger.With("component", "rabbitmq"),
	}
}

// Connect dials the server and declares the topology.
func (b *Broker) Connect(ctx context.Context) error {
	ch, err := b.channel(ctx)
	if err != nil {
		return err
	}
	return ch.Close()
}

// Close closes the connection.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

// Publish sends event persistently and waits for the broker confirm.
func (b *Broker) Publish(ctx context.Context, routingKey string, event notification.Event) error {
	body, err := event.Marshal()
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("event", err)
	}

	ch, err := b.channel(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err = ch.Confirm(false); err != nil {
		return unavailable(err)
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, b.topology.Exchange, routingKey, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return unavailable(err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return unavailable(err)
	}
	if !acked {
		return unavailable(fmt.Errorf("publish to %q was nacked", routingKey))
	}

	b.logger.DebugContext(ctx, "event published", "routing_key", routingKey, "action", event.Action, "post_id", event.Data.ID)
	return nil
}

// ConsumeMatching scans queue until a message satisfies match and returns it
// unacknowledged. Non-matching messages are held only while scanning: they are
// requeued every heldRequeueInterval, so concurrent scanners never starve each
// other, and all of them are requeued as soon as the match is found. The
// consumer is cancelled on a match, leaving the matched message as the only
// one owned by its channel. Malformed messages are rejected without requeue.
func (b *Broker) ConsumeMatching(
	ctx context.Context,
	queue string,
	match notification.Predicate,
) (ports.Delivery, error) {
	ch, err := b.channel(ctx)
	if err != nil {
		return nil, err
	}

	tag := "posttracker-" + uuid.NewString()
	msgs, err := ch.Consume(queue, tag, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, unavailable(err)
	}

	var held []amqp.Delivery
	requeue := func() {
		for _, m := range held {
			if nackErr := m.Nack(false, true); nackErr != nil {
				b.logger.Warn("failed to requeue held message", "queue", queue, "error", nackErr)
			}
		}
		held = nil
	}

	ticker := time.NewTicker(heldRequeueInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			requeue()
			_ = ch.Close()
			return nil, ctx.Err()

		case <-ticker.C:
			requeue()

		case m, ok := <-msgs:
			if !ok {
				requeue()
				_ = ch.Close()
				return nil, unavailable(errors.New("consumer channel closed"))
			}

			event, decodeErr := notification.UnmarshalEvent(m.Body)
			if decodeErr != nil {
				b.logger.Warn("dropping malformed message", "queue", queue, "error", decodeErr)
				if nackErr := m.Nack(false, false); nackErr != nil {
					b.logger.Warn("failed to reject malformed message", "queue", queue, "error", nackErr)
				}
				continue
			}

			if !match(event) {
				held = append(held, m)
				continue
			}

			if cancelErr := ch.Cancel(tag, false); cancelErr != nil {
				b.logger.Warn("failed to cancel consumer", "queue", queue, "error", cancelErr)
			}
			requeue()
			b.requeueInFlight(ctx, queue, msgs)
			return &delivery{msg: m, event: event, ch: ch}, nil
		}
	}
}

// requeueInFlight returns messages pushed to the consumer before its cancel
// took effect. The deliveries chan is closed once they are all handed over.
func (b *Broker) requeueInFlight(ctx context.Context, queue string, msgs <-chan amqp.Delivery) {
	timeout := time.NewTimer(inFlightDrainTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timeout.C:
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			if nackErr := m.Nack(false, true); nackErr != nil {
				b.logger.Warn("failed to requeue in-flight message", "queue", queue, "error", nackErr)
			}
		}
	}
}

// channel returns a fresh channel on the shared connection.
func (b *Broker) channel(ctx context.Context) (*amqp.Channel, error) {
	conn, err := b.connection(ctx)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, unavailable(err)
	}
	return ch, nil
}

// connection returns the live connection, dialling a new one if needed. The
// dial runs without holding the lock; when two callers race, the first stored
// connection wins and the other is closed.
func (b *Broker) connection(ctx context.Context) (*amqp.Connection, error) {
	b.mu.Lock()
	current := b.conn
	b.mu.Unlock()
	if current != nil && !current.IsClosed() {
		return current, nil
	}

	conn, err := b.dial(ctx)
	if err != nil {
		return nil, err
	}
	if err = declare(conn, b.topology); err != nil {
		_ = conn.Close()
		return nil, unavailable(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil && !b.conn.IsClosed() {
		_ = conn.Close()
		return b.conn, nil
	}
	b.conn = conn
	return conn, nil
}

// dial retries immediately, up to dialAttempts times.
func (b *Broker) dial(ctx context.Context) (*amqp.Connection, error) {
	var lastErr error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, unavailable(ctx.Err())
		}
		conn, err := amqp.DialConfig(b.url, amqp.Config{Dial: amqp.DefaultDial(b.dialTimeout)})
		if err == nil {
			return conn, nil
		}
		lastErr = err
		b.logger.Warn("failed to connect", "attempt", attempt, "error", err)
	}
	return nil, unavailable(lastErr)
}

func declare(conn *amqp.Connection, t Topology) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err = ch.ExchangeDeclare(t.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %q: %w", t.Exchange, err)
	}
	for _, bnd := range t.Bindings {
		if _, err = ch.QueueDeclare(bnd.Queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %q: %w", bnd.Queue, err)
		}
		if err = ch.QueueBind(bnd.Queue, bnd.RoutingKey, t.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %q: %w", bnd.Queue, err)
		}
	}
	return nil
}

func unavailable(err error) error {
	return errs.NewDependencyIsUnavailableErrorWithCause("message broker", err)
}

// delivery is the matched message. Settling it closes its channel.
type delivery struct {
	msg   amqp.Delivery
	event notification.Event
	ch    *amqp.Channel
	once  sync.Once
}

func (d *delivery) Event() notification.Event {
	return d.event
}

func (d *delivery) Ack() error {
	return d.settle(func() error { return d.msg.Ack(false) })
}

func (d *delivery) Nack(requeue bool) error {
	return d.settle(func() error { return d.msg.Nack(false, requeue) })
}

func (d *delivery) settle(fn func() error) error {
	err := errors.New("delivery already settled")
	d.once.Do(func() {
		err = fn()
		_ = d.ch.Close()
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}
