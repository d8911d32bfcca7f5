// Package throttle paces outgoing email so bursts (a redelivery run, a busy
// form) stay under the provider's request rate.
package throttle

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"golang.org/x/time/rate"
)

type Sender struct {
	next    ports.EmailSender
	limiter *rate.Limiter
}

// NewSender allows perSecond sends per second to next, with bursts of burst.
func NewSender(next ports.EmailSender, perSecond float64, burst int) *Sender {
	return &Sender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), max(1, burst)),
	}
}

// Send waits for its turn, or until ctx is done.
func (s *Sender) Send(ctx context.Context, email domain.Email) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return s.next.Send(ctx, email)
}
