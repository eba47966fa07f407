package main

import (
	"context"
	"os"

	"github.com/fhuszti/medias-pipeline-go/internal/config"
	"github.com/fhuszti/medias-pipeline-go/internal/db"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/migration"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.StoreDriver != config.StoreDriverMariaDB {
		logger.Infof(ctx, "job store driver is %q, nothing to migrate", cfg.StoreDriver)
		return
	}

	database, err := db.NewFromConfig(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		MultiStatements: true,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	if err := migration.MigrateUp(database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}
