package worker

import (
	"context"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/hibiken/asynq"
)

// SweepJobsHandler runs one cleanup pass. The next tick of the scheduler is
// the retry, so a failed pass is not redelivered.
func SweepJobsHandler(ctx context.Context, svc port.JobSweeper) error {
	report, err := svc.SweepJobs(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Sweep failed: %v", err)
		return err
	}
	if report.Scanned > 0 {
		logger.Infof(ctx, "✅  Swept %d/%d terminal jobs", report.Swept, report.Scanned)
	}
	return nil
}

func NewSweepJobsTaskHandler(svc port.JobSweeper) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		return SweepJobsHandler(ctx, svc)
	}
}
