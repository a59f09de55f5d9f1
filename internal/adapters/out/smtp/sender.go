// Package smtp delivers customer notifications by e-mail.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/ports"

	"github.com/wneessen/go-mail"
)

const (
	// DefaultTimeout bounds a single delivery attempt.
	DefaultTimeout = 10 * time.Second

	sendAttempts = 3
)

// Config describes the outgoing mail server.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Sender implements ports.NotificationSender.
type Sender struct {
	cfg    Config
	logger *slog.Logger
}

// NewSender creates a sender. Authentication is used only when a username is set.
func NewSender(cfg Config, logger *slog.Logger) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Sender{cfg: cfg, logger: logger.With("component", "smtp_sender")}
}

// Send delivers m, trying up to three times in a row. Permanent refusals
// stop immediately and wrap ports.ErrNotificationRejected; anything else
// left after the last attempt wraps ports.ErrNotificationUnavailable.
func (s *Sender) Send(ctx context.Context, m notification.Message) error {
	msg, err := s.compose(m)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrNotificationRejected, err)
	}

	client, err := s.client()
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrNotificationUnavailable, err)
	}

	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		lastErr = client.DialAndSendWithContext(attemptCtx, msg)
		cancel()

		if lastErr == nil {
			s.logger.InfoContext(ctx, "notification sent", "subject", m.Subject, "attempt", attempt)
			return nil
		}
		if isPermanent(lastErr) {
			return fmt.Errorf("%w: %w", ports.ErrNotificationRejected, lastErr)
		}
		s.logger.WarnContext(ctx, "notification attempt failed", "attempt", attempt, "error", lastErr)

		if ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("%w: %w", ports.ErrNotificationUnavailable, lastErr)
}

func (s *Sender) compose(m notification.Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(m.Recipient); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}

func (s *Sender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

// isPermanent reports a 5xx reply from the server. A SendError without a
// reply code (dropped connection, timeout) is transient.
func isPermanent(err error) bool {
	var sendErr *mail.SendError
	if !errors.As(err, &sendErr) {
		return false
	}
	code := sendErr.ErrorCode()
	return code >= 500 && code <= 599
}
