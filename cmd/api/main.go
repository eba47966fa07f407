package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/cache"
	"github.com/fhuszti/medias-pipeline-go/internal/clock"
	"github.com/fhuszti/medias-pipeline-go/internal/config"
	"github.com/fhuszti/medias-pipeline-go/internal/handler"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/fhuszti/medias-pipeline-go/internal/renderer"
	"github.com/fhuszti/medias-pipeline-go/internal/repository"
	"github.com/fhuszti/medias-pipeline-go/internal/storage"
	"github.com/fhuszti/medias-pipeline-go/internal/task"
	mediaSvc "github.com/fhuszti/medias-pipeline-go/internal/usecase/media"
	"github.com/go-chi/chi/v5"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	if cfg.EmbeddedStore() {
		logger.Errorf(ctx, "❌  JOB_STORE_DRIVER=%s keeps the store in one process, start cmd/worker instead, it serves the HTTP API too", cfg.StoreDriver)
		os.Exit(1)
	}

	repo, closeStore := initStore(ctx, cfg)

	strg := initStorage(ctx, cfg)
	initBuckets(ctx, strg, cfg.Buckets())

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		defer func() {
			if err := d.Close(); err != nil {
				logger.Warnf(ctx, "queue client close error: %v", err)
			}
		}()
		dispatcher = d
		logger.Info(ctx, "✅  Redis cache and queue enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured, caching is disabled and new jobs are rejected")
	}

	ucCfg := mediaSvc.ConfigFromSettings(cfg)
	clk := clock.New()

	logger.Info(ctx, "initialising router...")
	r := handler.NewRouter(handler.RouterDeps{
		Ingester:     mediaSvc.NewMediaIngester(repo, strg, dispatcher, clk, ucCfg),
		Getter:       mediaSvc.NewJobGetter(repo, ucCfg),
		Renderer:     renderer.NewHTTPRenderer(ca),
		APIKey:       cfg.APIKey,
		JWTPublicKey: cfg.JWTPublicKey,
	})

	listenRouter(ctx, r, cfg, closeStore)
}

func initStore(ctx context.Context, cfg *config.Settings) (port.JobRepository, func() error) {
	logger.Infof(ctx, "initialising %s job store...", cfg.StoreDriver)

	repo, closeFn, err := repository.Open(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to open job store: %v", err)
		os.Exit(1)
	}
	return repo, closeFn
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBuckets(ctx context.Context, strg port.Storage, buckets []string) {
	for _, b := range buckets {
		if err := strg.InitBucket(b); err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", b, err)
			os.Exit(1)
		}
	}
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, closeStore func() error) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := closeStore(); err != nil {
		logger.Errorf(ctx, "job store close error: %v", err)
		os.Exit(1)
	}
}
