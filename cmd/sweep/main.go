package main

import (
	"context"
	"os"

	"github.com/fhuszti/medias-pipeline-go/internal/cache"
	"github.com/fhuszti/medias-pipeline-go/internal/clock"
	"github.com/fhuszti/medias-pipeline-go/internal/config"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/fhuszti/medias-pipeline-go/internal/repository"
	"github.com/fhuszti/medias-pipeline-go/internal/storage"
	mediaSvc "github.com/fhuszti/medias-pipeline-go/internal/usecase/media"
)

// Runs a single cleanup pass outside of the worker schedule.
func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		return 1
	}

	logger.Init()

	if cfg.EmbeddedStore() {
		logger.Errorf(ctx, "❌  JOB_STORE_DRIVER=%s is held open by cmd/worker, which already sweeps every %s", cfg.StoreDriver, cfg.SweepInterval)
		return 1
	}

	repo, closeStore, err := repository.Open(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to open job store: %v", err)
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warnf(ctx, "job store close error: %v", err)
		}
	}()

	strg, err := storage.NewStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		return 1
	}

	var ca port.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	}

	sweeper := mediaSvc.NewJobSweeper(repo, strg, ca, clock.New(), mediaSvc.ConfigFromSettings(cfg))
	report, err := sweeper.SweepJobs(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Sweep failed: %v", err)
		return 1
	}
	logger.Infof(ctx, "✅  Sweep completed: %d scanned, %d swept, %d failed, %d artifact errors",
		report.Scanned, report.Swept, report.Failed, report.ArtifactErrors)
	return 0
}
