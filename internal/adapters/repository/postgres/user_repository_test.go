package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var testUser = domain.NewUser{
	Email:        "a@x.com",
	Username:     "alice",
	PasswordHash: "$2a$10$hash",
	Role:         domain.RoleUser,
	IsActive:     true,
}

func TestUserCreate_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT\s+id\s+FROM\s+roles\s+WHERE\s+role_name\s*=\s*\$1`).
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+users\b.*RETURNING\s+id`).
		WithArgs("a@x.com", "alice", "$2a$10$hash", true, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectExec(`INSERT\s+INTO\s+user_roles`).
		WithArgs(id, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_RoleNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+id\s+FROM\s+roles`).
		WithArgs("user").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), testUser)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_UniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", domain.ErrEmailTaken},
		{"users_username_key", domain.ErrUsernameTaken},
		{"something_else", domain.ErrDuplicateUser},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT\s+id\s+FROM\s+roles`).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
			mock.ExpectQuery(`INSERT\s+INTO\s+users`).
				WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: tt.constraint})
			mock.ExpectRollback()

			_, err := repo.Create(context.Background(), testUser)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrDuplicateUser)
		})
	}
}

func userRows(id uuid.UUID, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "username", "password_hash", "is_active", "is_email_verified", "created_at", "updated_at", "roles",
	}).AddRow(id.String(), "a@x.com", "alice", "$2a$10$hash", active, false, now, now, []byte("{admin,user}"))
}

func TestUserFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`(?s)FROM\s+users\s+u.*WHERE\s+u\.email\s*=\s*\$1\s+AND\s+u\.is_active\s*=\s*TRUE`).
		WithArgs("a@x.com").
		WillReturnRows(userRows(id, true))

	user, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, []string{"admin", "user"}, user.Roles)
	assert.Empty(t, user.PasswordHash)
}

func TestUserFindCredentialsByEmail_KeepsHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)WHERE\s+u\.email\s*=\s*\$1\s+GROUP\s+BY`).
		WithArgs("a@x.com").
		WillReturnRows(userRows(uuid.New(), false))

	user, err := repo.FindCredentialsByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	assert.False(t, user.IsActive)
}

func TestUserFindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`WHERE\s+u\.id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	user, err := repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+email`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+username`).
		WithArgs("alice").
		WillReturnError(errors.New("db down"))

	exists, err := repo.EmailExists(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.UsernameExists(context.Background(), "alice")
	assert.ErrorContains(t, err, "db down")
}
