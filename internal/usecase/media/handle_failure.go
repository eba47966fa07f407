package media

import (
	"context"
	"errors"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

type failureHandlerSrv struct {
	repo     port.JobRepository
	tasks    port.TaskDispatcher
	reporter port.FailureReporter
	clock    port.Clock
	cfg      Config
}

// compile-time check: *failureHandlerSrv must satisfy port.FailureHandler
var _ port.FailureHandler = (*failureHandlerSrv)(nil)

// NewFailureHandler builds the retry and poison controller. reporter may be nil.
func NewFailureHandler(repo port.JobRepository, tasks port.TaskDispatcher, reporter port.FailureReporter, clock port.Clock, cfg Config) port.FailureHandler {
	return &failureHandlerSrv{repo, tasks, reporter, clock, cfg}
}

// HandleFailure records the failed attempt, then either schedules the next
// one after an exponential backoff or escalates the job to the poison queue.
// Validation errors escalate immediately.
func (s *failureHandlerSrv) HandleFailure(ctx context.Context, job *model.Job, cause error) error {
	errMsg := cause.Error()
	job.RecordFailure(s.clock.Now(), errMsg)

	if errors.Is(cause, model.ErrValidation) {
		logger.Warnf(ctx, "job %q cannot succeed, not retrying: %s", job.Name, errMsg)
		return s.escalate(ctx, job, errMsg)
	}
	if job.RetryCount >= s.cfg.MaxRetryAttempts {
		logger.Errorf(ctx, "job %q failed %d times, giving up: %s", job.Name, job.RetryCount, errMsg)
		return s.escalate(ctx, job, errMsg)
	}

	delay := RetryBackoff(job.RetryCount)
	if err := s.tasks.EnqueueProcessMedia(ctx, model.NewQueueMessage(job), delay); err != nil {
		return err
	}
	job.MarkRequeued(s.clock.Now())
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}
	logger.Infof(ctx, "requeued job %q for attempt %d in %s", job.Name, job.RetryCount, delay)
	return nil
}

// escalate parks the message for inspection and makes the failure durable.
// The dead-letter publish is only an inspection aid, its failure is logged.
func (s *failureHandlerSrv) escalate(ctx context.Context, job *model.Job, errMsg string) error {
	if err := s.tasks.PublishPoison(ctx, model.NewQueueMessage(job), errMsg); err != nil {
		logger.Errorf(ctx, "could not publish job %q to the poison queue: %v", job.Name, err)
	}

	job.MarkFailed(s.clock.Now(), errMsg)
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}

	if s.reporter != nil {
		if err := s.reporter.ReportFailure(ctx, job, errMsg); err != nil {
			logger.Warnf(ctx, "could not report failure of job %q: %v", job.Name, err)
		}
	}
	return nil
}
