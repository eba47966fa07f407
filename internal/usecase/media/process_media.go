package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fhuszti/medias-pipeline-go/internal/api_context"
	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

type mediaProcessorSrv struct {
	repo     port.JobRepository
	strg     port.Storage
	exec     port.TransformExecutor
	prober   port.Prober
	failures port.FailureHandler
	hooks    []port.CompletionHook
	clock    port.Clock
	cfg      Config
}

// compile-time check: *mediaProcessorSrv must satisfy port.MediaProcessor
var _ port.MediaProcessor = (*mediaProcessorSrv)(nil)

func NewMediaProcessor(
	repo port.JobRepository,
	strg port.Storage,
	exec port.TransformExecutor,
	prober port.Prober,
	failures port.FailureHandler,
	hooks []port.CompletionHook,
	clock port.Clock,
	cfg Config,
) port.MediaProcessor {
	return &mediaProcessorSrv{repo, strg, exec, prober, failures, hooks, clock, cfg}
}

// ProcessMedia runs one attempt. Job store errors are returned so the queue
// redelivers the message; every other failure goes through the failure handler.
func (s *mediaProcessorSrv) ProcessMedia(ctx context.Context, msg model.QueueMessage) error {
	ctx = context.WithValue(ctx, api_context.JobNameKey, msg.Name)

	job, err := s.repo.GetByName(ctx, msg.Name)
	if errors.Is(err, model.ErrJobNotFound) {
		logger.Warnf(ctx, "no record for job %q, dropping message", msg.Name)
		return nil
	}
	if err != nil {
		return err
	}
	if job.Status.IsTerminal() {
		logger.Infof(ctx, "job %q is already %s, acknowledging", job.Name, job.Status)
		return nil
	}
	if msg.RetryCount < job.RetryCount {
		logger.Warnf(ctx, "%v: attempt %d of job %q is behind attempt %d", ErrStaleMessage, msg.RetryCount, job.Name, job.RetryCount)
		return nil
	}

	job.MarkProcessing(s.clock.Now())
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}

	res, err := s.transform(ctx, job)
	if err != nil {
		logger.Errorf(ctx, "processing of job %q failed: %v", job.Name, err)
		return s.failures.HandleFailure(ctx, job, err)
	}

	job.MarkCompleted(s.clock.Now(), *res)
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}
	logger.Infof(ctx, "job %q completed, ratio %.3f", job.Name, res.CompressionRatio)

	runHooks(ctx, s.hooks, job)
	return nil
}

func (s *mediaProcessorSrv) transform(ctx context.Context, job *model.Job) (*model.JobResult, error) {
	start := s.clock.Now()

	srcPath, srcSize, err := s.download(ctx, job.Name)
	if err != nil {
		return nil, err
	}
	defer removeLocal(ctx, srcPath)

	res := &model.JobResult{OriginalSize: job.SizeBytes}
	if res.OriginalSize <= 0 {
		res.OriginalSize = srcSize
	}

	var out *port.TransformResult
	switch job.MediaType {
	case model.MediaTypeVideo:
		d := encoding.Decide(s.profileFor(job), s.prober.Probe(ctx, srcPath))
		logger.Infof(ctx, "encoding decision for %q: reencode=%t profile=%s (%s)", job.Name, d.NeedsReencode, d.Profile, d.Reason)
		res.Profile = d.Profile
		res.SkippedReencode = !d.NeedsReencode
		out, err = s.exec.ExecuteVideo(ctx, srcPath, d)
	case model.MediaTypeImage:
		out, err = s.exec.ExecuteImage(ctx, srcPath)
	default:
		return nil, fmt.Errorf("%w: media type %q", model.ErrUnsupportedMediaType, job.MediaType)
	}
	if err != nil {
		return nil, err
	}
	defer removeLocal(ctx, out.OutputPath)

	outName := model.OutputName(job.Name, job.MediaType)
	if err := s.upload(ctx, out, outName); err != nil {
		return nil, err
	}

	url, err := s.strg.GeneratePresignedDownloadURL(ctx, s.cfg.ProcessedBucket, outName, s.cfg.OutputURLTTL)
	if err != nil {
		return nil, fmt.Errorf("could not sign output link for %q: %w", outName, err)
	}

	res.CompressedSize = out.OutputSize
	res.CompressionRatio = model.CompressionRatio(res.OriginalSize, out.OutputSize)
	res.OutputName = outName
	res.OutputURL = url
	res.Format = out.Format
	res.ProcessingTime = s.clock.Now().Sub(start).Seconds()
	return res, nil
}

// download copies the source artifact into a local temp file.
func (s *mediaProcessorSrv) download(ctx context.Context, name string) (string, int64, error) {
	src, err := s.strg.GetFile(ctx, s.cfg.UploadsBucket, name)
	if errors.Is(err, ErrObjectNotFound) {
		return "", 0, fmt.Errorf("%w: source %q is gone", model.ErrValidation, name)
	}
	if err != nil {
		return "", 0, fmt.Errorf("could not fetch %q: %w", name, err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp("", "source-*"+filepath.Ext(name))
	if err != nil {
		return "", 0, fmt.Errorf("could not create temp source: %w", err)
	}
	n, err := io.Copy(tmp, src)
	if cErr := tmp.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		removeLocal(ctx, tmp.Name())
		return "", 0, fmt.Errorf("could not download %q: %w", name, err)
	}
	return tmp.Name(), n, nil
}

// upload saves the output under a temporary key first so a half-written
// object never appears under its final name.
func (s *mediaProcessorSrv) upload(ctx context.Context, out *port.TransformResult, outName string) error {
	f, err := os.Open(out.OutputPath)
	if err != nil {
		return fmt.Errorf("could not open transform output: %w", err)
	}
	defer func() { _ = f.Close() }()

	bucket := s.cfg.ProcessedBucket
	tempKey := outName + ".tmp"
	if err := s.strg.SaveFile(ctx, bucket, tempKey, f, out.OutputSize, map[string]string{
		"Content-Type": out.ContentType,
	}); err != nil {
		return fmt.Errorf("failed to save temp file %q inside bucket %q: %w", tempKey, bucket, err)
	}

	if err := s.strg.CopyFile(ctx, bucket, tempKey, outName); err != nil {
		return fmt.Errorf("failed to copy %q→%q inside bucket %q: %w", tempKey, outName, bucket, err)
	}

	if err := s.strg.RemoveFile(ctx, bucket, tempKey); err != nil {
		logger.Warnf(ctx, "failed to remove temp file %q from bucket %q: %v", tempKey, bucket, err)
	}
	return nil
}

func removeLocal(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf(ctx, "failed to remove local file %q: %v", path, err)
	}
}

// profileFor resolves the encoder settings of job: its own profile if it
// names one, else the configured one, with its overrides on top.
func (s *mediaProcessorSrv) profileFor(job *model.Job) encoding.Profile {
	p := s.cfg.Profile
	if job.Profile != "" {
		p = encoding.LookupProfile(job.Profile)
	}
	if job.Overrides != nil {
		p = p.Apply(*job.Overrides)
	}
	return p
}
