// Package mailer wraps the outbound SMTP provider. Delivery is accepted/queued
// semantics only; nothing here confirms end-to-end receipt.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/config"
)

// Message is one outbound notification payload.
type Message struct {
	To      string
	Subject string
	Body    string
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	client   *mail.Client
	fromAddr string
	fromName string
}

// NewSMTP builds a mailer from provider credentials.
func NewSMTP(cfg config.MailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPMailer{
		client:   client,
		fromAddr: cfg.FromAddress,
		fromName: cfg.FromName,
	}, nil
}

// Send delivers a single message, honoring the context deadline.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.FromFormat(m.fromName, m.fromAddr); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
