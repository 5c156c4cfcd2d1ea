package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Message is one rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	// HTML is optional; Text is always sent as the fallback part.
	HTML string
	// Tag groups deliveries in the provider's analytics, usually the template name.
	Tag string
}

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	client  *mg.MailgunImpl
	From    string
	Timeout time.Duration
}

// NewMailgun builds a sender for domain. apiBase selects the region, e.g.
// mg.APIBaseEU; empty keeps the US default.
func NewMailgun(domain, apiKey, from, apiBase string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{client: client, From: from, Timeout: 10 * time.Second}
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	out := m.client.NewMessage(m.From, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	if msg.Tag != "" {
		if err := out.AddTag(msg.Tag); err != nil {
			return fmt.Errorf("tag message: %w", err)
		}
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	if _, _, err := m.client.Send(c, out); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", msg.To, err)
	}
	return nil
}

var _ Sender = (*Mailgun)(nil)
