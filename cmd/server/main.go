package main

import (
	"context"
	"errors"
	"flag"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/handler/http"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/teknikoz-api/internal/bootstrap"
	"github.com/vncsmyrnk/teknikoz-api/internal/config"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/services"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

const (
	limiterSweepInterval = 10 * time.Minute
	limiterIdleTTL       = 2 * time.Hour
)

func main() {
	migrate := flag.Bool("migrate", false, "Apply pending migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger := logging.NewStdout(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if *migrate {
		if err := postgres.MigrateUp(ctx, db); err != nil {
			log.Fatal(err)
		}
	}

	store := postgres.NewAuthStore(db)
	tokens, err := bootstrap.NewTokenService(store, cfg.Auth)
	if err != nil {
		log.Fatal(err)
	}

	var verifier ports.TokenVerifier
	if cfg.Auth.GoogleClientID != "" {
		verifier = google.NewVerifier()
	}
	authService := services.NewAuthService(store, tokens, verifier, services.AuthConfig{
		SignupRoles:    cfg.Auth.SignupRoles,
		GoogleClientID: cfg.Auth.GoogleClientID,
	}, logger)

	notifier, err := bootstrap.NewNotifier(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	dbx := sqlx.NewDb(db, "postgres")
	contactRepo := postgres.NewContactRepository(dbx)
	contactService := services.NewContactService(contactRepo, notifier, logger)
	brochureService := services.NewBrochureService(postgres.NewBrochureRepository(dbx), contactRepo, notifier, logger)

	limiter, err := newLimiter(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	router := http.NewHandler(
		http.RouterConfig{
			AllowedOrigins: []string{cfg.FrontendURL},
			GoogleSignIn:   cfg.Auth.GoogleClientID != "",
		},
		http.Handlers{
			Auth: http.NewAuthHandler(authService, http.CookieConfig{
				Secure: cfg.IsProduction(),
				MaxAge: cfg.Auth.RefreshTokenTTL,
			}, logger),
			Contacts:  http.NewContactHandler(contactService, logger),
			Brochures: http.NewBrochureHandler(brochureService, logger),
		},
		http.NewMiddleware(authService, limiter, logger),
	)

	if cfg.Auth.PurgeInterval > 0 {
		go purgeLoop(ctx, tokens, cfg.Auth.PurgeInterval, logger)
	}

	server := &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return ratelimit.NewRedisLimiter(client), nil
	}

	memory := ratelimit.NewMemoryLimiter()
	go memory.Run(ctx, limiterSweepInterval, limiterIdleTTL)
	return memory, nil
}

func purgeLoop(ctx context.Context, tokens *services.TokenService, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.PurgeExpired(ctx)
			if err != nil {
				logger.Error(ctx, "failed to purge refresh tokens", "error", err)
				continue
			}
			logger.Info(ctx, "purged refresh tokens", "count", n)
		}
	}
}
