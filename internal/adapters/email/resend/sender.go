// Package resend sends email through the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

type Sender struct {
	client *resend.Client
}

func NewSender(apiKey string) *Sender {
	return &Sender{client: resend.NewClient(apiKey)}
}

// NewSenderWithClient is used by tests to point the client at a fake API.
func NewSenderWithClient(client *resend.Client) *Sender {
	return &Sender{client: client}
}

// Send delivers email. Attachments are passed by URL and fetched by Resend.
func (s *Sender) Send(ctx context.Context, email domain.Email) error {
	params := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	}
	for _, a := range email.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: a.Filename,
			Path:     a.URL,
		})
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
