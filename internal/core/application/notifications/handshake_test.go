package notifications_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"posttracker/internal/core/application/notifications"
	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/ports"
	"posttracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockConsumer struct{ mock.Mock }

func (m *MockConsumer) ConsumeMatching(
	ctx context.Context,
	queue string,
	match notification.Predicate,
) (ports.Delivery, error) {
	args := m.Called(ctx, queue, match)
	if d := args.Get(0); d != nil {
		return d.(ports.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event notification.Event) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, msg notification.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockDelivery struct {
	mock.Mock
	event notification.Event
}

func (m *MockDelivery) Event() notification.Event { return m.event }
func (m *MockDelivery) Ack() error                { return m.Called().Error(0) }
func (m *MockDelivery) Nack(requeue bool) error   { return m.Called(requeue).Error(0) }

var createdEvent = notification.Event{
	Action: notification.ActionPostCreated,
	Data:   notification.Data{ID: 7, Email: "ANA@EXAMPLE.COM", TrackingCode: "abc", Carrier: "CORREIOS"},
}

func newHandshake(consumer *MockConsumer, publisher *MockPublisher, sender *MockSender) notifications.Handshake {
	return notifications.NewHandshake(consumer, publisher, sender, time.Second, slog.New(slog.DiscardHandler))
}

func matchingPredicate(id int64) any {
	return mock.MatchedBy(func(p notification.Predicate) bool {
		return p(notification.Event{Data: notification.Data{ID: id}}) &&
			!p(notification.Event{Data: notification.Data{ID: id + 1}})
	})
}

func TestHandshake_AwaitPredecessor(t *testing.T) {
	ctx := t.Context()
	expectedMessage := notification.InTransitMessage(createdEvent)

	testCases := []struct {
		name    string
		sendErr error
		settle  func(d *MockDelivery)
	}{
		{
			name:    "should ack after successful send",
			sendErr: nil,
			settle:  func(d *MockDelivery) { d.On("Ack").Return(nil).Once() },
		},
		{
			name:    "should drop event on permanent rejection",
			sendErr: fmt.Errorf("550 mailbox unavailable: %w", ports.ErrNotificationRejected),
			settle:  func(d *MockDelivery) { d.On("Nack", false).Return(nil).Once() },
		},
		{
			name:    "should requeue event when transport is unavailable",
			sendErr: fmt.Errorf("dial tcp: %w", ports.ErrNotificationUnavailable),
			settle:  func(d *MockDelivery) { d.On("Nack", true).Return(nil).Once() },
		},
		{
			name:    "should not fail when settling fails",
			sendErr: nil,
			settle:  func(d *MockDelivery) { d.On("Ack").Return(errors.New("channel closed")).Once() },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			consumer := new(MockConsumer)
			sender := new(MockSender)
			delivery := &MockDelivery{event: createdEvent}

			consumer.On("ConsumeMatching", mock.Anything, "created_queue", matchingPredicate(7)).
				Return(delivery, nil).Once()
			sender.On("Send", ctx, expectedMessage).Return(tc.sendErr).Once()
			tc.settle(delivery)

			h := newHandshake(consumer, new(MockPublisher), sender)
			err := h.AwaitPredecessor(ctx, "created_queue", 7, notification.InTransitMessage)

			require.NoError(t, err)
			consumer.AssertExpectations(t)
			sender.AssertExpectations(t)
			delivery.AssertExpectations(t)
		})
	}

	t.Run("should fail with dependency error when draining fails", func(t *testing.T) {
		consumer := new(MockConsumer)
		sender := new(MockSender)
		consumer.On("ConsumeMatching", mock.Anything, "on_course_queue", mock.Anything).
			Return(nil, context.DeadlineExceeded).Once()

		h := newHandshake(consumer, new(MockPublisher), sender)
		err := h.AwaitPredecessor(ctx, "on_course_queue", 7, notification.DeliveredMessage)

		require.ErrorIs(t, err, errs.ErrDependencyIsUnavailable)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("should bound the wait with the configured timeout", func(t *testing.T) {
		consumer := new(MockConsumer)
		consumer.On("ConsumeMatching", mock.Anything, "created_queue", mock.Anything).
			Run(func(args mock.Arguments) {
				waitCtx := args.Get(0).(context.Context)
				deadline, ok := waitCtx.Deadline()
				assert.True(t, ok)
				assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
			}).
			Return(nil, errors.New("boom")).Once()

		h := newHandshake(consumer, new(MockPublisher), new(MockSender))
		_ = h.AwaitPredecessor(ctx, "created_queue", 7, notification.InTransitMessage)

		consumer.AssertExpectations(t)
	})
}

func TestHandshake_PublishSuccessor(t *testing.T) {
	ctx := t.Context()
	event := notification.Event{Action: notification.ActionUpdatedPost, Data: createdEvent.Data}

	t.Run("should publish event", func(t *testing.T) {
		publisher := new(MockPublisher)
		publisher.On("Publish", ctx, "on_course_rk", event).Return(nil).Once()

		err := newHandshake(new(MockConsumer), publisher, new(MockSender)).PublishSuccessor(ctx, "on_course_rk", event)

		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("should wrap publish failure", func(t *testing.T) {
		publisher := new(MockPublisher)
		publisher.On("Publish", ctx, "on_course_rk", event).Return(errors.New("connection reset")).Once()

		err := newHandshake(new(MockConsumer), publisher, new(MockSender)).PublishSuccessor(ctx, "on_course_rk", event)

		require.ErrorIs(t, err, errs.ErrDependencyIsUnavailable)
	})
}
