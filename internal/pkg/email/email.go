package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoRecipient is returned when a message has no destination address
var ErrNoRecipient = errors.New("email message has no recipient")

// Message is a single outbound HTML email
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	// Kind labels the message for metrics and logs (e.g. "password_reset")
	Kind string
}

// Sender delivers one message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds configuration for the outbound mail provider
type Config struct {
	Provider       string
	Host           string
	Port           int
	Username       string
	Password       string
	FromName       string
	FromEmail      string
	UseTLS         bool
	SendGridAPIKey string
}

// DefaultFrom renders the configured sender as an RFC 5322 address
func (c Config) DefaultFrom() string {
	addr := mail.Address{Name: c.FromName, Address: c.FromEmail}
	return addr.String()
}

// NewSender selects the delivery provider named by cfg.Provider.
// SMTP without credentials degrades to the console sender.
func NewSender(cfg Config, logger zerolog.Logger) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "smtp":
		if cfg.Username == "" || cfg.Password == "" {
			logger.Warn().Msg("SMTP credentials not configured - emails will be logged instead of sent")
			return NewConsoleSender(logger), nil
		}
		return NewSMTPSender(cfg, logger), nil
	case "sendgrid":
		return NewSendGridSender(cfg, logger), nil
	case "console", "":
		return NewConsoleSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// ConsoleSender logs messages instead of delivering them
type ConsoleSender struct {
	logger zerolog.Logger
}

// NewConsoleSender creates a sender for development environments
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Send logs the message headers and body
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("kind", msg.Kind).
		Str("body", msg.HTML).
		Msg("Email not sent (console provider)")
	return nil
}

// SMTPSender delivers messages through an SMTP relay
type SMTPSender struct {
	config Config
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(config Config, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Send sends an HTML email. net/smtp has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.config.DefaultFrom()
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	body := buildMIMEMessage(from, msg.To, msg.Subject, msg.HTML)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{msg.To}, body); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}

// buildMIMEMessage renders headers in a fixed order followed by the HTML body
func buildMIMEMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("UTF-8", subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}
	for _, h := range headers {
		b.WriteString(h[0])
		b.WriteString(": ")
		b.WriteString(h[1])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
