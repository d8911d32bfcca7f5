package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/teknikoz-api/internal/bootstrap"
	"github.com/vncsmyrnk/teknikoz-api/internal/config"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/services"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	bootstrap.DatabaseFlags(flag.CommandLine, &cfg.Database)
	limit := flag.Int("limit", 50, "Maximum pending requests to deliver")
	workers := flag.Int("workers", 4, "Concurrent deliveries")
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum time to run the job")
	flag.Parse()

	logger := logging.NewStdout(cfg.LogLevel, cfg.IsProduction()).With("job", "brochuredelivery")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := bootstrap.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	notifier, err := bootstrap.NewNotifier(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	dbx := sqlx.NewDb(db, "postgres")
	brochures := services.NewBrochureService(
		postgres.NewBrochureRepository(dbx),
		postgres.NewContactRepository(dbx),
		notifier,
		logger,
	)

	logger.Info(ctx, "starting brochure redelivery", "limit", *limit, "workers", *workers)

	delivered, err := brochures.DeliverPending(ctx, *limit, *workers)
	if err != nil {
		logger.Error(ctx, "some brochures were not delivered", "delivered", delivered, "error", err)
		log.Fatal(err)
	}

	logger.Info(ctx, "brochure redelivery completed", "delivered", delivered)
}
