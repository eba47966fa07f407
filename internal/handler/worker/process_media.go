package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/fhuszti/medias-pipeline-go/internal/task"
	"github.com/hibiken/asynq"
)

// ProcessMediaHandler runs one attempt of a job. A returned error makes the
// queue redeliver the message.
func ProcessMediaHandler(ctx context.Context, msg model.QueueMessage, svc port.MediaProcessor) error {
	if err := svc.ProcessMedia(ctx, msg); err != nil {
		logger.Errorf(ctx, "❌  Attempt %d of job %q will be redelivered: %v", msg.RetryCount, msg.Name, err)
		return err
	}
	logger.Infof(ctx, "✅  Handled attempt %d of job %q", msg.RetryCount, msg.Name)
	return nil
}

// NewProcessMediaTaskHandler decodes the task payload. A payload that cannot
// be decoded never will be, so it is archived instead of retried.
func NewProcessMediaTaskHandler(svc port.MediaProcessor) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		msg, err := task.ParseProcessMediaPayload(t)
		if err != nil {
			logger.Errorf(ctx, "❌  Dropping malformed %s task: %v", t.Type(), err)
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return ProcessMediaHandler(ctx, msg, svc)
	}
}
