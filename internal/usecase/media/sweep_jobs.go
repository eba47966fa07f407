package media

import (
	"context"
	"errors"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

type jobSweeperSrv struct {
	repo  port.JobRepository
	strg  port.Storage
	cache port.Cache
	clock port.Clock
	cfg   Config
}

// compile-time check: *jobSweeperSrv must satisfy port.JobSweeper
var _ port.JobSweeper = (*jobSweeperSrv)(nil)

func NewJobSweeper(repo port.JobRepository, strg port.Storage, cache port.Cache, clock port.Clock, cfg Config) port.JobSweeper {
	return &jobSweeperSrv{repo, strg, cache, clock, cfg}
}

// SweepJobs deletes terminal jobs whose terminal timestamp is older than the
// retention window. It is best effort: a failing job is counted and skipped.
func (s *jobSweeperSrv) SweepJobs(ctx context.Context) (port.SweepReport, error) {
	var report port.SweepReport

	cutoff := s.clock.Now().Add(-s.cfg.RetentionWindow)
	jobs, err := s.repo.ListTerminalBefore(ctx, cutoff)
	if err != nil {
		return report, err
	}
	report.Scanned = len(jobs)
	if len(jobs) == 0 {
		logger.Debug(ctx, "no terminal jobs to sweep")
		return report, nil
	}

	for _, job := range jobs {
		if s.removeArtifact(ctx, job) != nil {
			report.ArtifactErrors++
		}
		if err := s.repo.Delete(ctx, job.Name); err != nil {
			logger.Warnf(ctx, "could not delete job %q: %v", job.Name, err)
			report.Failed++
			continue
		}
		if err := s.cache.DeleteJobDetails(ctx, job.Name); err != nil {
			logger.Warnf(ctx, "could not drop cached details of job %q: %v", job.Name, err)
		}
		if err := s.cache.DeleteEtagJobDetails(ctx, job.Name); err != nil {
			logger.Warnf(ctx, "could not drop cached etag of job %q: %v", job.Name, err)
		}
		report.Swept++
	}

	logger.Infof(ctx, "sweep done: %d scanned, %d swept, %d failed, %d artifact errors",
		report.Scanned, report.Swept, report.Failed, report.ArtifactErrors)
	return report, nil
}

// removeArtifact deletes the processed output of a completed job. An already
// missing object counts as removed.
func (s *jobSweeperSrv) removeArtifact(ctx context.Context, job *model.Job) error {
	if job.Status != model.JobStatusCompleted {
		return nil
	}
	outName := model.OutputName(job.Name, job.MediaType)
	if job.Result != nil && job.Result.OutputName != "" {
		outName = job.Result.OutputName
	}
	err := s.strg.RemoveFile(ctx, s.cfg.ProcessedBucket, outName)
	if err == nil || errors.Is(err, ErrObjectNotFound) {
		return nil
	}
	logger.Warnf(ctx, "could not remove artifact %q of job %q: %v", outName, job.Name, err)
	return err
}
