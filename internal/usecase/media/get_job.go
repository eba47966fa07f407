package media

import (
	"context"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

type jobGetterSrv struct {
	repo port.JobRepository
	cfg  Config
}

// compile-time check: *jobGetterSrv must satisfy port.JobGetter
var _ port.JobGetter = (*jobGetterSrv)(nil)

func NewJobGetter(repo port.JobRepository, cfg Config) port.JobGetter {
	return &jobGetterSrv{repo, cfg}
}

// GetJob returns the stored state of a job. Terminal jobs no longer change
// until they are swept, so their document is valid until the earlier of the
// sweep and the expiry of the signed output link.
func (s *jobGetterSrv) GetJob(ctx context.Context, name string) (*port.GetJobOutput, error) {
	job, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	out := &port.GetJobOutput{
		Name:                job.Name,
		Status:              job.Status,
		MediaType:           job.MediaType,
		SizeBytes:           job.SizeBytes,
		RetryCount:          job.RetryCount,
		Result:              job.Result,
		CreatedAt:           job.CreatedAt,
		UpdatedAt:           job.UpdatedAt,
		ProcessingStartedAt: job.ProcessingStartedAt,
		CompletedAt:         job.CompletedAt,
		FailedAt:            job.FailedAt,
	}
	if job.Status == model.JobStatusFailed {
		out.ErrorMessage = job.LastError
	}

	if ts := job.TerminalAt(); ts != nil {
		validUntil := ts.Add(s.cfg.RetentionWindow)
		if job.Status == model.JobStatusCompleted {
			if linkExpiry := ts.Add(s.cfg.OutputURLTTL); linkExpiry.Before(validUntil) {
				validUntil = linkExpiry
			}
		}
		out.ValidUntil = validUntil
	}
	return out, nil
}
