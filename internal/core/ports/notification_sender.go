package ports

import (
	"context"
	"errors"

	"posttracker/internal/core/domain/model/notification"
)

var (
	// ErrNotificationRejected means the mail server refused the message
	// permanently (bad recipient, policy). Retrying will not help.
	ErrNotificationRejected = errors.New("notification rejected")

	// ErrNotificationUnavailable means the mail server could not be reached or
	// failed transiently on every attempt.
	ErrNotificationUnavailable = errors.New("notification transport unavailable")
)

// NotificationSender delivers customer messages.
type NotificationSender interface {
	// Send delivers m. Failures wrap ErrNotificationRejected or
	// ErrNotificationUnavailable.
	Send(ctx context.Context, m notification.Message) error
}
