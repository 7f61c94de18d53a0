package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/postgres"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/logging"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/retry"
)

func main() {
	var (
		databaseURL = flag.String("database", os.Getenv("DATABASE_URL"), "Postgres URL (or set DATABASE_URL env)")
		statusOnly  = flag.Bool("status", false, "Report the schema version without migrating")
		timeout     = flag.Duration("timeout", 2*time.Minute, "Overall deadline")
		verbose     = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("Database URL required (--database or DATABASE_URL env)")
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	logging.InitLogger(level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.ConnectWithRetry(ctx, *databaseURL, retry.StartupPolicy)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if !*statusOnly {
		if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
			slog.Error("Migration failed", "error", err)
			os.Exit(1)
		}
	}

	status, err := postgres.GetMigrationStatus(ctx, pool)
	if err != nil {
		slog.Error("Failed to read migration status", "error", err)
		os.Exit(1)
	}
	slog.Info("Schema version", "current", status.Current, "latest", status.Latest, "pending", status.Pending())

	if status.Pending() > 0 {
		os.Exit(2)
	}
}
