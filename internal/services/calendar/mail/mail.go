// Package mail delivers transactional email for calendar workflows.
//
// Each send is independent: callers iterate recipients and surface the first
// failure without undoing earlier deliveries.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/smtp"
	"strings"
)

// Message is one rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig configures the SMTP transport.
type SMTPConfig struct {
	Host     string `env:"CALSHARE_SMTP_HOST"`
	Port     int    `env:"CALSHARE_SMTP_PORT" envDefault:"587"`
	Username string `env:"CALSHARE_SMTP_USERNAME"`
	Password string `env:"CALSHARE_SMTP_PASSWORD"`
	From     string `env:"CALSHARE_SMTP_FROM"`
}

// SMTPSender delivers messages over SMTP with optional PLAIN auth.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string

	// send allows tests to intercept the wire call.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender constructs an SMTP sender from cfg.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	host := strings.TrimSpace(cfg.Host)
	from := strings.TrimSpace(cfg.From)
	if host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("smtp port is required")
	}
	if from == "" {
		return nil, errors.New("smtp from address is required")
	}
	if _, err := mail.ParseAddress(from); err != nil {
		return nil, fmt.Errorf("parse smtp from address: %w", err)
	}

	var auth smtp.Auth
	if strings.TrimSpace(cfg.Username) != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, cfg.Port),
		auth: auth,
		from: from,
		send: smtp.SendMail,
	}, nil
}

// Send delivers one message. The context is consulted before the blocking
// wire call; the SMTP dial itself carries no cancellation.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return errors.New("smtp sender is not configured")
	}
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return errors.New("recipient is required")
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("parse recipient address: %w", err)
	}

	var payload strings.Builder
	payload.WriteString("From: " + s.from + "\r\n")
	payload.WriteString("To: " + to + "\r\n")
	payload.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	payload.WriteString("MIME-Version: 1.0\r\n")
	payload.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	payload.WriteString("\r\n")
	payload.WriteString(msg.Body)

	if err := s.send(s.addr, s.auth, s.from, []string{to}, []byte(payload.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// sanitizeHeader strips CR/LF to prevent header injection.
func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.ReplaceAll(value, "\n", " ")
}

// LogSender writes messages to the process log instead of delivering them.
// It backs local development and deployments without SMTP credentials.
type LogSender struct{}

// Send logs the message and reports success.
func (LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("mail (log delivery) to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
