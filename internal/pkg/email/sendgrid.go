package email

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridSender delivers messages through the SendGrid v3 API
type SendGridSender struct {
	key    string
	host   string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGridSender creates a sender bound to the configured API key
func NewSendGridSender(cfg Config, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		key:    cfg.SendGridAPIKey,
		host:   sendGridHost,
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

// Send posts the message to SendGrid. Any status >= 400 is an error.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	req := sendgrid.GetRequest(s.key, sendGridEndpoint, s.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error().
			Int("status", res.StatusCode).
			Str("body", res.Body).
			Str("to", msg.To).
			Msg("SendGrid rejected message")
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	return nil
}

func (s *SendGridSender) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.fromFor(msg))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	return m
}

func (s *SendGridSender) fromFor(msg Message) *sgmail.Email {
	if msg.From == "" {
		return s.from
	}
	if addr, err := mail.ParseAddress(msg.From); err == nil {
		return sgmail.NewEmail(addr.Name, addr.Address)
	}
	return s.from
}
