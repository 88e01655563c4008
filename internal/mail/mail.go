// Package mail delivers account verification emails.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// Mailer sends the verification link for a pending account.
type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
}

const verificationSubject = "Verify your email address"

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP server using STARTTLS and PLAIN auth.
type SMTPMailer struct {
	cfg  SMTPConfig
	now  func() time.Time
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := &net.Dialer{Timeout: 10 * time.Second}
	return &SMTPMailer{cfg: cfg, now: time.Now, dial: d.DialContext}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, link string) error {
	msg := m.compose(to, verificationSubject, verificationBody(link))
	if err := m.send(ctx, to, msg); err != nil {
		return fmt.Errorf("mail.SMTPMailer.SendVerification: %w", err)
	}
	return nil
}

func verificationBody(link string) string {
	return "Please verify your email address by clicking the following link:\r\n" +
		link + "\r\n\r\n" +
		"This link will expire in 24 hours.\r\n"
}

func (m *SMTPMailer) compose(to, subject, body string) []byte {
	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", m.cfg.From)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", subject)
	write("Date: %s\r\n", m.now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n")
	write("\r\n")
	write("%s", body)
	return msg.Bytes()
}

func (m *SMTPMailer) send(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	conn, err := m.dial(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}
	if m.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
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

// LogMailer writes verification links to the log instead of sending mail.
// It is used when no SMTP credentials are configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendVerification(ctx context.Context, to, link string) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "verification email not sent, no SMTP configured",
		"to", to,
		"link", link,
	)
	return nil
}
