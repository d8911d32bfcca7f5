package ports

import (
	"context"

	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

// EmailSender is an email transport.
type EmailSender interface {
	Send(ctx context.Context, email domain.Email) error
}

// Notifier renders and sends the site's emails.
type Notifier interface {
	Send(ctx context.Context, contact *domain.Contact, kind domain.TemplateKind, brochure *domain.BrochureRequest) error
}
