package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/teknikoz-api/internal/bootstrap"
	"github.com/vncsmyrnk/teknikoz-api/internal/config"
)

const usage = `Usage: migrations [flags] <command> [args]

Commands are passed to goose: up, up-by-one, up-to VERSION, down, down-to VERSION,
redo, reset, status, version.

Flags:
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	bootstrap.DatabaseFlags(flag.CommandLine, &cfg.Database)
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum time to run the command")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command, args := flag.Arg(0), flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := bootstrap.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, command, args...); err != nil {
		log.Fatalf("migration %s failed: %v", command, err)
	}
}
