package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/dbx"
)

const refreshTokenColumns = `id, user_id, token_hash, expires_at, revoked, created_at, updated_at`

type refreshTokenRepository struct {
	q dbx.DBTX
}

func NewRefreshTokenRepository(db *sql.DB) ports.RefreshTokenRepository {
	return &refreshTokenRepository{q: db}
}

func (r *refreshTokenRepository) Store(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, revoked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRowContext(ctx, query, token.UserID, token.TokenHash, token.ExpiresAt, token.Revoked).
		Scan(&token.ID, &token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) FindValid(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked = FALSE AND expires_at > NOW()
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, tokenHash))
}

func (r *refreshTokenRepository) Consume(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, updated_at = NOW()
		WHERE token_hash = $1 AND revoked = FALSE AND expires_at > NOW()
		RETURNING ` + refreshTokenColumns
	return r.scanOne(r.q.QueryRowContext(ctx, query, tokenHash))
}

func (r *refreshTokenRepository) scanOne(row *sql.Row) (*domain.RefreshToken, error) {
	token := &domain.RefreshToken{}
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.Revoked,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return token, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, updated_at = NOW() WHERE token_hash = $1 AND revoked = FALSE`
	if _, err := r.q.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE refresh_tokens SET revoked = TRUE, updated_at = NOW() WHERE user_id = $1 AND revoked = FALSE`
	return r.execCount(ctx, "revoke refresh tokens", query, userID)
}

func (r *refreshTokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= NOW() OR revoked = TRUE`
	return r.execCount(ctx, "purge refresh tokens", query)
}

func (r *refreshTokenRepository) execCount(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	return n, nil
}
