// Package logsender is an email transport for local development that only
// logs what would have been sent.
package logsender

import (
	"context"

	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

type Sender struct {
	logger logging.Logger
}

func NewSender(logger logging.Logger) *Sender {
	return &Sender{logger: logger.With("component", "email")}
}

func (s *Sender) Send(ctx context.Context, email domain.Email) error {
	files := make([]string, 0, len(email.Attachments))
	for _, a := range email.Attachments {
		files = append(files, a.Filename)
	}
	s.logger.Info(ctx, "email not sent (log provider)",
		"to", email.To, "subject", email.Subject, "attachments", files, "html_bytes", len(email.HTML))
	return nil
}
