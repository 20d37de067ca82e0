package contact

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPConfig describes the mailbox used by the SMTP sender.
type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	ToEmail string
}

// SMTP delivers contact messages straight to an inbox over SMTP.
type SMTP struct {
	cfg      SMTPConfig
	sendMail func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger   *zap.Logger
}

// NewSMTP returns an SMTP sender, filling in Gmail defaults for host and port.
func NewSMTP(cfg SMTPConfig, logger *zap.Logger) *SMTP {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTP{cfg: cfg, sendMail: sendMailContext, logger: logger.Named("smtp")}
}

// Send composes a plain text mail with Reply-To set to the visitor. It
// returns once ctx is done even if the server stops responding.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if s.cfg.User == "" || s.cfg.Pass == "" {
		return errors.New("smtp: credentials not configured")
	}
	to := s.cfg.ToEmail
	if to == "" {
		to = s.cfg.User
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	body := s.compose(to, msg)

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(ctx, addr, auth, s.cfg.User, []string{to}, body)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
	case <-ctx.Done():
		s.logger.Warn("abandoning mail delivery", zap.Error(ctx.Err()))
		return fmt.Errorf("smtp: %w", ctx.Err())
	}
	s.logger.Info("mail sent", zap.String("to", to))
	return nil
}

// sendMailContext is smtp.SendMail with the connection bound to ctx: the
// dial honours cancellation and every read and write after it shares the
// context deadline.
func sendMailContext(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (s *SMTP) compose(to string, msg Message) []byte {
	body := fmt.Sprintf(`
New contact form submission for %s:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from the portfolio contact form
`, msg.ToName, msg.FromName, msg.FromEmail, msg.Subject, msg.Message)

	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + headerSafe(msg.Subject) + "\r\n")
	b.WriteString("From: " + s.cfg.User + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(msg.FromEmail) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

// headerSafe drops line breaks so visitor input cannot add headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
