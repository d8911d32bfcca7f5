package postgres

import (
	"context"
	"database/sql"

	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/dbx"
)

// AuthStore hands out the user and refresh token repositories bound either to
// the pool or to one open transaction.
type AuthStore struct {
	db   *sql.DB
	q    dbx.DBTX
	inTx bool
}

func NewAuthStore(db *sql.DB) *AuthStore {
	return &AuthStore{db: db, q: db}
}

func (s *AuthStore) Users() ports.UserRepository {
	return &userRepository{q: s.q}
}

func (s *AuthStore) RefreshTokens() ports.RefreshTokenRepository {
	return &refreshTokenRepository{q: s.q}
}

func (s *AuthStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store ports.AuthStore) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &AuthStore{db: s.db, q: tx, inTx: true})
	})
}
