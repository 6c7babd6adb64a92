// Package email delivers notification mail through Mailgun.
package email

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	notificationapp "github.com/brandcert/backend/internal/application/notification"
	infraconfig "github.com/brandcert/backend/internal/infrastructure/config"
)

// Ensure MailgunSender implements the application port
var _ notificationapp.EmailSender = (*MailgunSender)(nil)

// MailgunSender sends mail through the Mailgun HTTP API
type MailgunSender struct {
	mg     *mailgun.MailgunImpl
	sender string
	logger *zap.Logger
}

// Option is a functional option for configuring the MailgunSender
type Option func(*MailgunSender)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *MailgunSender) {
		s.logger = logger
	}
}

// WithAPIBase overrides the Mailgun API base URL, mainly for tests
func WithAPIBase(apiBase string) Option {
	return func(s *MailgunSender) {
		s.mg.SetAPIBase(apiBase)
	}
}

// NewMailgunSender creates a sender from configuration
func NewMailgunSender(cfg *infraconfig.MailConfig, opts ...Option) (*MailgunSender, error) {
	if cfg.Domain == "" {
		return nil, fmt.Errorf("email: mail domain is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("email: API key is required")
	}

	sender := cfg.Sender
	if sender == "" {
		sender = "no-reply@" + cfg.Domain
	}

	s := &MailgunSender{
		mg:     mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		sender: sender,
		logger: zap.L().Named("email"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Send delivers one message
func (s *MailgunSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("email: recipient is required")
	}

	msg := s.mg.NewMessage(s.sender, subject, textBody, to)
	if htmlBody != "" {
		msg.SetHtml(htmlBody)
	}

	_, id, err := s.mg.Send(ctx, msg)
	if err != nil {
		s.logger.Warn("email delivery failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("email: failed to send: %w", err)
	}

	s.logger.Info("email sent",
		zap.String("to", to),
		zap.String("message_id", id))
	return nil
}

// NoopSender is wired when outbound mail is disabled; it drops messages
// after logging them at debug level.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that drops all mail
func NewNoopSender(logger *zap.Logger) *NoopSender {
	if logger == nil {
		logger = zap.L().Named("email")
	}
	return &NoopSender{logger: logger}
}

// Send drops the message
func (s *NoopSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	s.logger.Debug("email delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

var _ notificationapp.EmailSender = (*NoopSender)(nil)
