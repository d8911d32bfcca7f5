package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted half of a token pair. Only the SHA-256 of
// the opaque value is stored.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValid reports whether the token can still be used at instant now.
func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
}

// AccessClaims is what a verified access token asserts.
type AccessClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}
