// Package mail sends alert emails over SMTP and renders their HTML bodies.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var _ notification.Mailer = (*SMTPMailer)(nil)

// sender is satisfied by *gomail.Dialer
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers one message per Send over a fresh SMTP connection
type SMTPMailer struct {
	sender   sender
	from     string
	fromName string
	logger   *zap.Logger
}

// NewSMTPMailer creates a mailer from configuration
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, errors.New("mail host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail sender address is required")
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.SSL
	return newSMTPMailer(dialer, cfg.From, cfg.FromName, logger), nil
}

func newSMTPMailer(s sender, from, fromName string, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{sender: s, from: from, fromName: fromName, logger: logger}
}

// Send delivers msg. Bcc addresses go into the envelope only.
func (m *SMTPMailer) Send(ctx context.Context, msg notification.EmailMessage) error {
	if len(msg.To) == 0 && len(msg.Bcc) == 0 {
		return errors.New("email has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	if len(msg.To) > 0 {
		gm.SetHeader("To", msg.To...)
	}
	if len(msg.Bcc) > 0 {
		gm.SetHeader("Bcc", msg.Bcc...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- m.sender.DialAndSend(gm)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	m.logger.Debug("Email sent",
		zap.String("subject", msg.Subject),
		zap.Int("to", len(msg.To)),
		zap.Int("bcc", len(msg.Bcc)),
	)
	return nil
}
