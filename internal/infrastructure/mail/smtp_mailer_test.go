package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.sent = append(r.sent, m...)
	return r.err
}

func TestNewSMTPMailer_Validation(t *testing.T) {
	_, err := NewSMTPMailer(nil, nil)
	assert.Error(t, err)

	_, err = NewSMTPMailer(&config.MailConfig{Host: "smtp.example.com"}, nil)
	assert.ErrorContains(t, err, "sender")

	m, err := NewSMTPMailer(&config.MailConfig{Host: "smtp.example.com", Port: 587, From: "ims@example.com"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestSMTPMailer_SendUsesBcc(t *testing.T) {
	rec := &recordingSender{}
	m := newSMTPMailer(rec, "ims@example.com", "IMS", zaptest.NewLogger(t))

	err := m.Send(context.Background(), notification.EmailMessage{
		To:      []string{"ims@example.com"},
		Bcc:     []string{"admin@example.com", "manager@example.com"},
		Subject: "Low stock: Widget",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)

	msg := rec.sent[0]
	assert.Equal(t, []string{"ims@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"admin@example.com", "manager@example.com"}, msg.GetHeader("Bcc"))
	assert.Equal(t, []string{"Low stock: Widget"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.NotContains(t, raw, "manager@example.com")
	assert.True(t, strings.Contains(raw, "text/html"))
}

func TestSMTPMailer_SendErrors(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		m := newSMTPMailer(&recordingSender{}, "ims@example.com", "", nil)
		assert.Error(t, m.Send(context.Background(), notification.EmailMessage{Subject: "x"}))
	})

	t.Run("smtp failure", func(t *testing.T) {
		m := newSMTPMailer(&recordingSender{err: errors.New("535 auth failed")}, "ims@example.com", "", nil)
		err := m.Send(context.Background(), notification.EmailMessage{Bcc: []string{"a@example.com"}})
		assert.ErrorContains(t, err, "535 auth failed")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := newSMTPMailer(&recordingSender{}, "ims@example.com", "", nil)
		assert.ErrorIs(t, m.Send(ctx, notification.EmailMessage{Bcc: []string{"a@example.com"}}), context.Canceled)
	})

	t.Run("deadline while sending", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		m := newSMTPMailer(&recordingSender{delay: 200 * time.Millisecond}, "ims@example.com", "", nil)
		assert.ErrorIs(t, m.Send(ctx, notification.EmailMessage{Bcc: []string{"a@example.com"}}), context.DeadlineExceeded)
	})
}
