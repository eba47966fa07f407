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
	workerHandler "github.com/fhuszti/medias-pipeline-go/internal/handler/worker"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/notifier"
	"github.com/fhuszti/medias-pipeline-go/internal/optimiser"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/fhuszti/medias-pipeline-go/internal/probe"
	"github.com/fhuszti/medias-pipeline-go/internal/renderer"
	"github.com/fhuszti/medias-pipeline-go/internal/repository"
	"github.com/fhuszti/medias-pipeline-go/internal/storage"
	"github.com/fhuszti/medias-pipeline-go/internal/task"
	mediaSvc "github.com/fhuszti/medias-pipeline-go/internal/usecase/media"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	repo, closeStore, err := repository.Open(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to open job store: %v", err)
		os.Exit(1)
	}

	strg := initStorage(cfg)
	initBuckets(strg, cfg.Buckets())

	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	ca := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})

	hooks, reporter := initNotifiers(ctx, cfg, rdb)

	ucCfg := mediaSvc.ConfigFromSettings(cfg)
	clk := clock.New()
	exec := optimiser.NewOptimiser(cfg.FFmpegPath, cfg.MaxProcessingTime, optimiser.NewWebPEncoder())
	prober := probe.NewProber(cfg.FFprobePath)

	failureSvc := mediaSvc.NewFailureHandler(repo, dispatcher, reporter, clk, ucCfg)
	processSvc := mediaSvc.NewMediaProcessor(repo, strg, exec, prober, failureSvc, hooks, clk, ucCfg)
	sweepSvc := mediaSvc.NewJobSweeper(repo, strg, ca, clk, ucCfg)

	mux := asynq.NewServeMux()
	mux.Handle(task.TypeProcessMedia, workerHandler.NewProcessMediaTaskHandler(processSvc))
	mux.Handle(task.TypeSweepJobs, workerHandler.NewSweepJobsTaskHandler(sweepSvc))

	scheduler := task.NewSweepScheduler(cfg.RedisAddr, cfg.RedisPassword, cfg.SweepInterval)
	if err := scheduler.Start(ctx); err != nil {
		logger.Errorf(ctx, "❌  Failed to start sweep scheduler: %v", err)
		os.Exit(1)
	}

	// an embedded store can only be opened here, so the API runs alongside
	var apiSrv *http.Server
	if cfg.EmbeddedStore() {
		apiSrv = startAPI(ctx, cfg, handler.RouterDeps{
			Ingester:     mediaSvc.NewMediaIngester(repo, strg, dispatcher, clk, ucCfg),
			Getter:       mediaSvc.NewJobGetter(repo, ucCfg),
			Renderer:     renderer.NewHTTPRenderer(ca),
			APIKey:       cfg.APIKey,
			JWTPublicKey: cfg.JWTPublicKey,
		})
	}

	runWorker(ctx, mux, cfg)

	if apiSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf(ctx, "API shutdown error: %v", err)
		}
		cancel()
	}
	scheduler.Stop()
	if err := dispatcher.Close(); err != nil {
		logger.Warnf(ctx, "queue client close error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		logger.Warnf(ctx, "redis close error: %v", err)
	}
	if err := closeStore(); err != nil {
		logger.Warnf(ctx, "job store close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}

// initNotifiers builds the completion hooks in the order they run, and the
// reporter told about permanent failures.
func initNotifiers(ctx context.Context, cfg *config.Settings, rdb *redis.Client) ([]port.CompletionHook, port.FailureReporter) {
	hooks := []port.CompletionHook{notifier.NewRealtimePublisher(rdb)}

	if cfg.WebhookURL != "" {
		hooks = append(hooks, notifier.NewWebhook(cfg.WebhookURL))
		logger.Infof(ctx, "✅  Completion webhook enabled")
	}

	var reporter port.FailureReporter
	if cfg.APIBaseURL != "" {
		updater := notifier.NewDatabaseUpdater(cfg.APIBaseURL, cfg.APIToken)
		hooks = append(hooks, updater)
		reporter = updater
		logger.Infof(ctx, "✅  Step updates enabled against %s", cfg.APIBaseURL)
	} else {
		logger.Warn(ctx, "⚠️  API_BASE_URL not set, step records will not be updated")
	}
	return hooks, reporter
}

func initStorage(cfg *config.Settings) port.Storage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBuckets(strg port.Storage, buckets []string) {
	for _, b := range buckets {
		if err := strg.InitBucket(b); err != nil {
			logger.Errorf(context.Background(), "❌  Failed to initialize bucket %q: %v", b, err)
			os.Exit(1)
		}
	}
}

func startAPI(ctx context.Context, cfg *config.Settings, deps handler.RouterDeps) *http.Server {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()
	return srv
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		// the poison queue is only drained by hand, see cmd/poison
		Queues: map[string]int{
			task.QueueProcessing:  6,
			task.QueueMaintenance: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
			logger.Warnf(ctx, "task %s failed: %v", t.Type(), err)
		}),
	})

	if err := srv.Start(mux); err != nil {
		logger.Errorf(ctx, "❌  Worker failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🚀 Worker started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stops fetching and waits for in-flight tasks up to ShutdownTimeout
	srv.Shutdown()
}
