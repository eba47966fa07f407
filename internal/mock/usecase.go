package mock

import (
	"context"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// JobGetter implements port.JobGetter for tests.
type JobGetter struct {
	Out    *port.GetJobOutput
	Err    error
	Called bool
}

func (m *JobGetter) GetJob(ctx context.Context, name string) (*port.GetJobOutput, error) {
	m.Called = true
	return m.Out, m.Err
}

// MediaIngester implements port.MediaIngester for tests.
type MediaIngester struct {
	Out    *port.IngestMediaOutput
	Err    error
	Called bool
	In     port.IngestMediaInput
}

func (m *MediaIngester) IngestMedia(ctx context.Context, in port.IngestMediaInput) (*port.IngestMediaOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MediaProcessor implements port.MediaProcessor for tests.
type MediaProcessor struct {
	Err    error
	Called bool
	Msg    model.QueueMessage
}

func (m *MediaProcessor) ProcessMedia(ctx context.Context, msg model.QueueMessage) error {
	m.Called = true
	m.Msg = msg
	return m.Err
}

// FailureHandler implements port.FailureHandler for tests.
type FailureHandler struct {
	Err    error
	Called bool
	Job    model.Job
	Cause  error
}

func (m *FailureHandler) HandleFailure(ctx context.Context, job *model.Job, cause error) error {
	m.Called = true
	m.Job = *job
	m.Cause = cause
	return m.Err
}

// JobSweeper implements port.JobSweeper for tests.
type JobSweeper struct {
	Out    port.SweepReport
	Err    error
	Called bool
}

func (m *JobSweeper) SweepJobs(ctx context.Context) (port.SweepReport, error) {
	m.Called = true
	return m.Out, m.Err
}
