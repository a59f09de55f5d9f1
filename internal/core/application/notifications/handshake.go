// Package notifications runs the broker handshake that accompanies every
// status transition: the event left by the previous stage is drained and
// turned into a customer message, then the event for the next stage is
// published.
package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/ports"
	"posttracker/internal/pkg/errs"
	"posttracker/internal/pkg/metrics"
)

// DefaultTimeout bounds how long AwaitPredecessor waits for a matching event.
const DefaultTimeout = 30 * time.Second

// Handshake implements the two-phase drain-then-publish protocol.
//
// Phase 1 (AwaitPredecessor) blocks until the predecessor event for the post
// is found on its queue, sends the customer message and settles the message:
//   - sent: Ack
//   - permanently rejected by the mail server: Nack without requeue
//   - mail transport unavailable: Nack with requeue
//
// Send failures are logged and counted but never fail the transition.
// Not finding the event in time, or any broker failure, does.
//
// Phase 2 (PublishSuccessor) publishes the event for the new stage.
type Handshake struct {
	consumer  ports.MessageConsumer
	publisher ports.MessagePublisher
	sender    ports.NotificationSender
	timeout   time.Duration
	logger    *slog.Logger
}

// NewHandshake creates a Handshake. A non-positive timeout falls back to
// DefaultTimeout.
func NewHandshake(
	consumer ports.MessageConsumer,
	publisher ports.MessagePublisher,
	sender ports.NotificationSender,
	timeout time.Duration,
	logger *slog.Logger,
) Handshake {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Handshake{
		consumer:  consumer,
		publisher: publisher,
		sender:    sender,
		timeout:   timeout,
		logger:    logger.With("component", "notification_handshake"),
	}
}

// AwaitPredecessor drains the first event about postID from queue and
// notifies the customer with the message built by compose.
func (h Handshake) AwaitPredecessor(
	ctx context.Context,
	queue string,
	postID int64,
	compose notification.Compose,
) error {
	started := time.Now()
	defer func() {
		metrics.HandshakeDuration.WithLabelValues(queue).Observe(time.Since(started).Seconds())
	}()

	waitCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	delivery, err := h.consumer.ConsumeMatching(waitCtx, queue, notification.ForPost(postID))
	if err != nil {
		h.logger.Error("failed to drain predecessor event",
			"queue", queue, "post_id", postID, "error", err)
		return errs.NewDependencyIsUnavailableErrorWithCause("message broker", err)
	}

	message := compose(delivery.Event())
	sendErr := h.sender.Send(ctx, message)

	var settleErr error
	switch {
	case sendErr == nil:
		metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		settleErr = delivery.Ack()
	case errors.Is(sendErr, ports.ErrNotificationRejected):
		metrics.NotificationsTotal.WithLabelValues("rejected").Inc()
		h.logger.Warn("notification rejected, dropping event",
			"queue", queue, "post_id", postID, "error", sendErr)
		settleErr = delivery.Nack(false)
	default:
		metrics.NotificationsTotal.WithLabelValues("unavailable").Inc()
		h.logger.Warn("notification not sent, requeueing event",
			"queue", queue, "post_id", postID, "error", sendErr)
		settleErr = delivery.Nack(true)
	}

	if settleErr != nil {
		h.logger.Warn("failed to settle predecessor event",
			"queue", queue, "post_id", postID, "error", settleErr)
	}

	return nil
}

// PublishSuccessor publishes event under routingKey.
func (h Handshake) PublishSuccessor(ctx context.Context, routingKey string, event notification.Event) error {
	if err := h.publisher.Publish(ctx, routingKey, event); err != nil {
		h.logger.Error("failed to publish successor event",
			"routing_key", routingKey, "post_id", event.Data.ID, "error", err)
		return errs.NewDependencyIsUnavailableErrorWithCause("message broker", err)
	}
	return nil
}
