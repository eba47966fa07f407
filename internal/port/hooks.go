package port

import (
	"context"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// CompletionHook runs after a job has been durably marked completed.
// Errors are logged by the caller and never fail the job.
type CompletionHook interface {
	Name() string
	OnJobCompleted(ctx context.Context, job *model.Job) error
}

// FailureReporter tells the owning application that a job failed for good.
type FailureReporter interface {
	ReportFailure(ctx context.Context, job *model.Job, errMsg string) error
}
