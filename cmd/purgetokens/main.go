package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/teknikoz-api/internal/bootstrap"
	"github.com/vncsmyrnk/teknikoz-api/internal/config"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	bootstrap.DatabaseFlags(flag.CommandLine, &cfg.Database)
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum time to run the job")
	flag.Parse()

	logger := logging.NewStdout(cfg.LogLevel, cfg.IsProduction()).With("job", "purgetokens")

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := bootstrap.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	tokens, err := bootstrap.NewTokenService(postgres.NewAuthStore(db), cfg.Auth)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info(ctx, "starting refresh token purge")

	n, err := tokens.PurgeExpired(ctx)
	if err != nil {
		logger.Error(ctx, "purge failed", "error", err)
		log.Fatal(err)
	}

	logger.Info(ctx, "refresh token purge completed", "deleted", n)
}
