package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

type mediaIngesterSrv struct {
	repo  port.JobRepository
	strg  port.Storage
	tasks port.TaskDispatcher
	clock port.Clock
	cfg   Config
}

// compile-time check: *mediaIngesterSrv must satisfy port.MediaIngester
var _ port.MediaIngester = (*mediaIngesterSrv)(nil)

func NewMediaIngester(repo port.JobRepository, strg port.Storage, tasks port.TaskDispatcher, clock port.Clock, cfg Config) port.MediaIngester {
	return &mediaIngesterSrv{repo, strg, tasks, clock, cfg}
}

// IngestMedia registers a freshly uploaded artifact and schedules its first
// attempt. A job whose enqueue fails is marked failed rather than left queued
// with no message behind it.
func (s *mediaIngesterSrv) IngestMedia(ctx context.Context, in port.IngestMediaInput) (*port.IngestMediaOutput, error) {
	if in.Name == "" {
		return nil, model.ErrMissingName
	}
	mt, err := model.MediaTypeFromName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Profile != "" && !encoding.IsKnownProfile(in.Profile) {
		return nil, fmt.Errorf("%w: unknown profile %q", model.ErrValidation, in.Profile)
	}

	info, err := s.strg.StatFile(ctx, s.cfg.UploadsBucket, in.Name)
	if errors.Is(err, ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %q is not in bucket %q", model.ErrValidation, in.Name, s.cfg.UploadsBucket)
	}
	if err != nil {
		return nil, fmt.Errorf("could not stat %q: %w", in.Name, err)
	}
	size := in.SizeBytes
	if size <= 0 {
		size = info.SizeBytes
	}

	job := model.NewJob(in.Name, size, mt, s.clock.Now())
	job.Profile = in.Profile
	job.Overrides = in.Overrides
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	delay := DispatchDelay(job.Priority())
	if err := s.tasks.EnqueueProcessMedia(ctx, model.NewQueueMessage(job), delay); err != nil {
		job.MarkFailed(s.clock.Now(), fmt.Sprintf("could not enqueue: %v", err))
		if uErr := s.repo.Update(ctx, job); uErr != nil {
			logger.Errorf(ctx, "could not mark job %q failed after enqueue error: %v", job.Name, uErr)
		}
		return nil, fmt.Errorf("could not enqueue job %q: %w", job.Name, err)
	}

	logger.Infof(ctx, "job %q ingested (%s, %d bytes, priority %s)", job.Name, mt, size, job.Priority())
	return &port.IngestMediaOutput{
		Name:      job.Name,
		Status:    job.Status,
		MediaType: job.MediaType,
		Priority:  job.Priority(),
		Delay:     delay,
	}, nil
}
