package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

type RefreshTokenRepository interface {
	Store(ctx context.Context, token *domain.RefreshToken) error
	FindValid(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	// Consume atomically revokes a valid token and returns it. Of two
	// concurrent callers only one gets the token; the other gets nil, nil.
	Consume(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// AuthStore groups the auth repositories so they can share a transaction.
type AuthStore interface {
	Users() UserRepository
	RefreshTokens() RefreshTokenRepository
	// WithinTx runs fn with a store bound to one transaction. Nested calls
	// join the outer transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, store AuthStore) error) error
}

type SignupInput struct {
	Email           string
	Password        string
	Username        string
	Role            string
	IsEmailVerified bool
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User   *domain.User
	Tokens *domain.TokenPair
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	RevokeAllTokens(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error)
}

type TokenPayload struct {
	Email string
	Name  string
}

// TokenVerifier checks third-party identity tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}
