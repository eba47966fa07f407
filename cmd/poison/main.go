package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/fhuszti/medias-pipeline-go/internal/config"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/task"
)

// Lists the jobs parked in the dead-letter queue as JSON lines, optionally
// discarding one of them.
func main() {
	ctx := context.Background()

	limit := flag.Int("limit", 100, "maximum number of parked jobs to list")
	discard := flag.String("discard", "", "task id to delete from the poison queue")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "❌  Redis not configured: this command requires a running Redis instance")
		os.Exit(1)
	}

	logger.Init()

	inspector := task.NewPoisonInspector(cfg.RedisAddr, cfg.RedisPassword)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warnf(ctx, "inspector close error: %v", err)
		}
	}()

	if *discard != "" {
		if err := inspector.Discard(*discard); err != nil {
			logger.Errorf(ctx, "❌  %v", err)
			os.Exit(1)
		}
		logger.Infof(ctx, "✅  Discarded task %s", *discard)
		return
	}

	entries, err := inspector.List(*limit)
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			logger.Errorf(ctx, "❌  Failed to encode entry %s: %v", e.TaskID, err)
			os.Exit(1)
		}
	}
	logger.Infof(ctx, "✅  %d parked jobs", len(entries))
}
