// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"google.golang.org/api/idtoken"
)

var (
	ErrEmailClaimMissing = errors.New("email not found in claims")
	ErrEmailUnverified   = errors.New("google account email is not verified")
)

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type Verifier struct {
	validate validateFunc
}

func NewVerifier() *Verifier {
	return &Verifier{validate: idtoken.Validate}
}

func (v *Verifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := v.validate(ctx, token, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate id token: %w", err)
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, ErrEmailClaimMissing
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrEmailUnverified
	}

	// name is absent when the user hides their profile
	name, _ := payload.Claims["name"].(string)
	return &ports.TokenPayload{Email: email, Name: name}, nil
}
