// Package mailer provides outbound email delivery for interview notifications.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/daniel/jobtrackr/internal/config"
	"github.com/daniel/jobtrackr/internal/db"
)

// Mailer sends interview notification emails. The reminder dispatcher depends
// on this interface; tests substitute a recording fake.
type Mailer interface {
	SendInterviewEmail(ctx context.Context, user *db.User, interview *db.Interview, app *db.Application, kind string) error
}

// SMTPMailer delivers mail over SMTP with STARTTLS.
type SMTPMailer struct {
	cfg         config.SMTPConfig
	dialTimeout time.Duration
}

// NewSMTPMailer creates an SMTP mailer from configuration.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:         cfg,
		dialTimeout: 30 * time.Second,
	}
}

// SendInterviewEmail composes the notification for the given kind and sends
// it to the user's address.
func (m *SMTPMailer) SendInterviewEmail(ctx context.Context, user *db.User, interview *db.Interview, app *db.Application, kind string) error {
	if err := ValidateEmail(user.Email); err != nil {
		return err
	}

	subject, body := ComposeInterviewEmail(user, interview, app, kind)
	msg := m.buildMessage(user.Email, subject, body)

	return m.sendSMTP(ctx, user.Email, msg)
}

// buildMessage assembles an RFC 5322 plain-text message.
func (m *SMTPMailer) buildMessage(to, subject, body string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: JobTrackr <%s>\r\n", m.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.String()
}

// sendSMTP sends the message via SMTP with STARTTLS and plain auth.
func (m *SMTPMailer) sendSMTP(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: m.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// The SMTP exchange after the dial must respect the same bound, or a
	// server that accepts and then hangs stalls the dispatch tick.
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(m.dialTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: m.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// Message is already accepted at this point; a failed QUIT is not an error.
	_ = client.Quit()
	return nil
}

// LogMailer writes notifications to the process log instead of sending them.
// Used when no SMTP transport is configured.
type LogMailer struct{}

// SendInterviewEmail logs the notification that would have been sent.
func (LogMailer) SendInterviewEmail(_ context.Context, user *db.User, interview *db.Interview, app *db.Application, kind string) error {
	subject, _ := ComposeInterviewEmail(user, interview, app, kind)
	log.Printf("[mailer] SMTP disabled, would send %q to %s (interview %s, kind %s)",
		subject, user.Email, interview.ID, kind)
	return nil
}

// ValidateEmail performs a minimal sanity check on a recipient address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("recipient email is empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid recipient email: %s", email)
	}
	if strings.ContainsAny(email, " \r\n") {
		return fmt.Errorf("invalid recipient email: %s", email)
	}
	return nil
}
