package contact

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTP_Send(t *testing.T) {
	s := NewSMTP(SMTPConfig{User: "me@example.com", Pass: "secret", ToEmail: "inbox@example.com"}, nil)

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	s.sendMail = func(_ context.Context, addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	msg := NewMessage(FormData{
		FirstName: "A", LastName: "B", Email: "a@b.com\r\nBcc: x@y.z", Message: "hi",
	}, "Mila")
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "smtp.gmail.com:587", gotAddr)
	assert.Equal(t, "me@example.com", gotFrom)
	assert.Equal(t, []string{"inbox@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Website Contact Form\r\n")
	assert.Contains(t, gotMsg, "Reply-To: a@b.com  Bcc: x@y.z\r\n")
	headers := strings.SplitN(gotMsg, "\r\n\r\n", 2)[0]
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, gotMsg, "Name: A B")
	assert.Contains(t, gotMsg, "hi")
}

func TestSMTP_MissingCredentials(t *testing.T) {
	s := NewSMTP(SMTPConfig{}, nil)
	s.sendMail = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("must not dial without credentials")
		return nil
	}
	assert.Error(t, s.Send(context.Background(), Message{}))
}

func TestSMTP_TransportError(t *testing.T) {
	s := NewSMTP(SMTPConfig{User: "u", Pass: "p"}, nil)
	dialErr := errors.New("connection refused")
	s.sendMail = func(context.Context, string, smtp.Auth, string, []string, []byte) error { return dialErr }

	err := s.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, dialErr)
}

func TestSMTP_StalledServerHonoursDeadline(t *testing.T) {
	s := NewSMTP(SMTPConfig{User: "u", Pass: "p"}, nil)
	stalled := make(chan struct{})
	t.Cleanup(func() { close(stalled) })
	s.sendMail = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		<-stalled
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := s.Send(ctx, Message{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSMTP_StalledServerFailsSubmission(t *testing.T) {
	s := NewSMTP(SMTPConfig{User: "u", Pass: "p"}, nil)
	stalled := make(chan struct{})
	t.Cleanup(func() { close(stalled) })
	s.sendMail = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		<-stalled
		return nil
	}

	c, clock := newTestController(s)
	require.NoError(t, c.SetForm(completeForm()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusFailed, c.Status())
	assert.Equal(t, completeForm(), c.Form())
	assert.Equal(t, 1, clock.pending())
}

func TestSendMailContext_DialHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sendMailContext(ctx, "127.0.0.1:1", nil, "a@b.c", []string{"d@e.f"}, nil)
	assert.Error(t, err)
}
