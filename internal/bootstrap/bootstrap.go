// Package bootstrap builds the adapters shared by the server and the batch
// commands from a config.Config.
package bootstrap

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/logsender"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/resend"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/sendgrid"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/email/throttle"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/storage"
	"github.com/vncsmyrnk/teknikoz-api/internal/config"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/services"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

// DatabaseFlags lets batch commands override the database settings; the
// defaults come from the environment.
func DatabaseFlags(fs *flag.FlagSet, db *config.Database) {
	fs.StringVar(&db.Host, "db-host", db.Host, "Database host")
	fs.StringVar(&db.Port, "db-port", db.Port, "Database port")
	fs.StringVar(&db.User, "db-user", db.User, "Database user")
	fs.StringVar(&db.Password, "db-pass", db.Password, "Database password")
	fs.StringVar(&db.Name, "db-name", db.Name, "Database name")
	fs.StringVar(&db.SSLMode, "db-sslmode", db.SSLMode, "Database sslmode")
}

func OpenDatabase(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

// NewEmailSender picks the transport. Provider transports are paced to
// cfg.SendRate when it is positive.
// NewTokenService builds the token service from the auth settings. It fails
// with domain.ErrMissingSigningSecret when JWT_SECRET is empty.
func NewTokenService(store ports.AuthStore, cfg config.Auth) (*services.TokenService, error) {
	return services.NewTokenService(store, services.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
}

func NewEmailSender(cfg config.Email, logger logging.Logger) (ports.EmailSender, error) {
	var sender ports.EmailSender
	switch cfg.Provider {
	case "resend":
		sender = resend.NewSender(cfg.APIKey)
	case "sendgrid":
		sender = sendgrid.NewSender(cfg.APIKey, cfg.SendgridHost, nil)
	case "log":
		return logsender.NewSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
	if cfg.SendRate > 0 {
		sender = throttle.NewSender(sender, cfg.SendRate, 1)
	}
	return sender, nil
}

// NewBrochureLocator presigns from S3 when a bucket is configured.
func NewBrochureLocator(ctx context.Context, cfg config.Storage) (ports.BrochureLocator, error) {
	if cfg.S3Bucket == "" {
		return storage.NewPublicLocator(cfg.BrochureBaseURL), nil
	}
	return storage.NewS3Locator(ctx, storage.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		TTL:       cfg.S3PresignTTL,
	})
}

func NewNotifier(ctx context.Context, cfg *config.Config, logger logging.Logger) (*services.EmailService, error) {
	sender, err := NewEmailSender(cfg.Email, logger)
	if err != nil {
		return nil, err
	}
	locator, err := NewBrochureLocator(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	return services.NewEmailService(sender, locator, services.EmailConfig{
		From:  cfg.Email.From,
		Admin: cfg.Email.Admin,
	})
}
