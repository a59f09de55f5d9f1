package ports

import (
	"context"

	"posttracker/internal/core/domain/model/notification"
)

// MessagePublisher publishes lifecycle events durably.
type MessagePublisher interface {
	// Publish sends event to the exchange under routingKey. It returns once
	// the broker has accepted the message.
	Publish(ctx context.Context, routingKey string, event notification.Event) error
}

// MessageConsumer drains lifecycle events from a queue.
type MessageConsumer interface {
	// ConsumeMatching blocks until a message on queue satisfies match, then
	// returns it unacknowledged. Messages that do not match stay on the queue.
	// Malformed messages are rejected without requeue while scanning.
	ConsumeMatching(ctx context.Context, queue string, match notification.Predicate) (Delivery, error)
}

// Delivery is a consumed message awaiting settlement. Exactly one of Ack or
// Nack must be called; both release the underlying broker resources.
type Delivery interface {
	Event() notification.Event
	Ack() error
	Nack(requeue bool) error
}
