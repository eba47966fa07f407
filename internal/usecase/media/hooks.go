package media

import (
	"context"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// runHooks calls every hook in order. A failing or panicking hook is logged
// and never affects the job or the remaining hooks.
func runHooks(ctx context.Context, hooks []port.CompletionHook, job *model.Job) {
	for _, h := range hooks {
		runHook(ctx, h, job)
	}
}

func runHook(ctx context.Context, h port.CompletionHook, job *model.Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "hook %s panicked for job %q: %v", h.Name(), job.Name, r)
		}
	}()
	snapshot := *job
	if err := h.OnJobCompleted(ctx, &snapshot); err != nil {
		logger.Warnf(ctx, "hook %s failed for job %q: %v", h.Name(), job.Name, err)
	}
}
