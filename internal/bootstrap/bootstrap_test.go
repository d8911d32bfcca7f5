package bootstrap

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/logsender"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/resend"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/sendgrid"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/throttle"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/storage"
	"github.com/vncsmyrnk/teknikoz-api/internal/config"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

func TestNewEmailSender(t *testing.T) {
	logger := logging.Discard()

	s, err := NewEmailSender(config.Email{Provider: "resend", APIKey: "re_x"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &resend.Sender{}, s)

	s, err = NewEmailSender(config.Email{Provider: "sendgrid", APIKey: "SG.x"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &sendgrid.Sender{}, s)

	s, err = NewEmailSender(config.Email{Provider: "resend", APIKey: "re_x", SendRate: 2}, logger)
	require.NoError(t, err)
	assert.IsType(t, &throttle.Sender{}, s)

	s, err = NewEmailSender(config.Email{Provider: "log", SendRate: 2}, logger)
	require.NoError(t, err)
	assert.IsType(t, &logsender.Sender{}, s)

	_, err = NewEmailSender(config.Email{Provider: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestNewBrochureLocator(t *testing.T) {
	ctx := context.Background()

	l, err := NewBrochureLocator(ctx, config.Storage{BrochureBaseURL: "http://localhost:8080/brochures"})
	require.NoError(t, err)
	assert.IsType(t, &storage.PublicLocator{}, l)

	l, err = NewBrochureLocator(ctx, config.Storage{
		S3Bucket:    "brochures",
		S3Region:    "us-east-1",
		S3Endpoint:  "http://127.0.0.1:9000",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Locator{}, l)
}

func TestNewNotifier(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"EMAIL_PROVIDER": "log"})
	require.NoError(t, err)

	n, err := NewNotifier(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestDatabaseFlags(t *testing.T) {
	db := config.Database{Host: "localhost", Port: "5432", User: "postgres", Name: "teknikoz", SSLMode: "disable"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	DatabaseFlags(fs, &db)

	require.NoError(t, fs.Parse([]string{"-db-host", "db.internal", "-db-pass", "s3cret"}))

	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, "s3cret", db.Password)
	assert.Equal(t, "5432", db.Port)
}

func TestNewTokenService_Purge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := postgres.NewAuthStore(db)

	_, err = NewTokenService(store, config.Auth{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	assert.ErrorIs(t, err, domain.ErrMissingSigningSecret)

	tokens, err := NewTokenService(store, config.Auth{JWTSecret: "s3cr3t", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	require.NoError(t, err)

	mock.ExpectExec(`DELETE\s+FROM\s+refresh_tokens`).WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := tokens.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
