package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

var tokenColumns = []string{"id", "user_id", "token_hash", "expires_at", "revoked", "created_at", "updated_at"}

func TestRefreshTokenStore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)
	id := uuid.New()
	now := time.Now()
	token := &domain.RefreshToken{UserID: uuid.New(), TokenHash: "abc", ExpiresAt: now.Add(time.Hour)}

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+refresh_tokens.*RETURNING\s+id,\s*created_at,\s*updated_at`).
		WithArgs(token.UserID, "abc", token.ExpiresAt, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	require.NoError(t, repo.Store(context.Background(), token))
	assert.Equal(t, id, token.ID)
	assert.Equal(t, now, token.CreatedAt)
}

func TestRefreshTokenConsume(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)
	userID := uuid.New()
	now := time.Now()
	q := `(?s)UPDATE\s+refresh_tokens\s+SET\s+revoked\s*=\s*TRUE.*WHERE\s+token_hash\s*=\s*\$1\s+AND\s+revoked\s*=\s*FALSE\s+AND\s+expires_at\s*>\s*NOW\(\)\s+RETURNING`

	mock.ExpectQuery(q).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(tokenColumns).AddRow(uuid.NewString(), userID.String(), "abc", now.Add(time.Hour), true, now, now))
	mock.ExpectQuery(q).
		WithArgs("abc").
		WillReturnError(sql.ErrNoRows)

	first, err := repo.Consume(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, userID, first.UserID)
	assert.True(t, first.Revoked)

	second, err := repo.Consume(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Nil(t, second)
}

func TestRefreshTokenFindValid_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectQuery(`(?s)SELECT.*FROM\s+refresh_tokens\s+WHERE\s+token_hash\s*=\s*\$1\s+AND\s+revoked\s*=\s*FALSE`).
		WithArgs("abc").
		WillReturnError(sql.ErrNoRows)

	token, err := repo.FindValid(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Nil(t, token)
}

func TestRefreshTokenRevokeAllAndPurge(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)
	userID := uuid.New()

	mock.ExpectExec(`UPDATE\s+refresh_tokens\s+SET\s+revoked\s*=\s*TRUE.*WHERE\s+user_id\s*=\s*\$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+expires_at\s*<=\s*NOW\(\)\s+OR\s+revoked\s*=\s*TRUE`).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := repo.RevokeAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRevoke(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectExec(`UPDATE\s+refresh_tokens.*WHERE\s+token_hash\s*=\s*\$1`).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Revoke(context.Background(), "abc"))
}
