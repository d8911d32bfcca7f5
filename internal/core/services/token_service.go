package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
)

const refreshTokenBytes = 64

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues, rotates, verifies and revokes tokens.
type TokenService struct {
	store      ports.AuthStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(store ports.AuthStore, cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, domain.ErrMissingSigningSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &TokenService{
		store:      store,
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

type accessClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *TokenService) IssueTokenPair(ctx context.Context, userID uuid.UUID, email string) (*domain.TokenPair, error) {
	return s.issue(ctx, s.store.RefreshTokens(), userID, email)
}

func (s *TokenService) issue(ctx context.Context, tokens ports.RefreshTokenRepository, userID uuid.UUID, email string) (*domain.TokenPair, error) {
	accessToken, err := s.signAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rt := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := tokens.Store(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new
// pair is issued in the same transaction.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, *domain.User, error) {
	if refreshToken == "" {
		return nil, nil, domain.ErrInvalidRefreshToken
	}

	var (
		pair *domain.TokenPair
		user *domain.User
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, store ports.AuthStore) error {
		rt, err := store.RefreshTokens().Consume(ctx, hashToken(refreshToken))
		if err != nil {
			return fmt.Errorf("failed to consume refresh token: %w", err)
		}
		if rt == nil {
			return domain.ErrInvalidRefreshToken
		}

		u, err := store.Users().FindByID(ctx, rt.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if u == nil {
			return domain.ErrAccountDeactivated
		}

		p, err := s.issue(ctx, store.RefreshTokens(), u.ID, u.Email)
		if err != nil {
			return err
		}
		pair, user = p, u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *TokenService) VerifyAccess(accessToken string) (*domain.AccessClaims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAccessToken, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id claim", domain.ErrInvalidAccessToken)
	}

	return &domain.AccessClaims{
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke is idempotent; unknown tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.store.RefreshTokens().Revoke(ctx, hashToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.store.RefreshTokens().RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.RefreshTokens().PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	return n, nil
}

func (s *TokenService) signAccessToken(userID uuid.UUID, email string) (string, error) {
	now := s.now()
	claims := accessClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
