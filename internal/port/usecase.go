package port

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// MediaIngester creates the job record for an uploaded artifact and queues it.
type MediaIngester interface {
	IngestMedia(ctx context.Context, in IngestMediaInput) (*IngestMediaOutput, error)
}
type IngestMediaInput struct {
	Name      string `json:"name" validate:"required,max=512,medianame"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`

	// Profile and Overrides tune video encoding for this job only.
	Profile   string              `json:"profile,omitempty" validate:"omitempty,videoprofile"`
	Overrides *encoding.Overrides `json:"overrides,omitempty"`
}
type IngestMediaOutput struct {
	Name      string          `json:"name"`
	Status    model.JobStatus `json:"status"`
	MediaType model.MediaType `json:"media_type"`
	Priority  model.Priority  `json:"priority"`
	Delay     time.Duration   `json:"-"`
}

// MediaProcessor runs one queued job through the transform pipeline.
type MediaProcessor interface {
	ProcessMedia(ctx context.Context, msg model.QueueMessage) error
}

// FailureHandler decides between a delayed retry and permanent failure.
type FailureHandler interface {
	HandleFailure(ctx context.Context, job *model.Job, cause error) error
}

// JobSweeper removes terminal jobs past the retention window.
type JobSweeper interface {
	SweepJobs(ctx context.Context) (SweepReport, error)
}
type SweepReport struct {
	Scanned        int `json:"scanned"`
	Swept          int `json:"swept"`
	ArtifactErrors int `json:"artifact_errors"`
	Failed         int `json:"failed"`
}

// JobGetter reads the current state of a job.
type JobGetter interface {
	GetJob(ctx context.Context, name string) (*GetJobOutput, error)
}
type GetJobOutput struct {
	ValidUntil          time.Time        `json:"-"`
	Name                string           `json:"name"`
	Status              model.JobStatus  `json:"status"`
	MediaType           model.MediaType  `json:"media_type"`
	SizeBytes           int64            `json:"size_bytes"`
	RetryCount          int              `json:"retry_count"`
	ErrorMessage        *string          `json:"error_message,omitempty"`
	Result              *model.JobResult `json:"result,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	ProcessingStartedAt *time.Time       `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time       `json:"completed_at,omitempty"`
	FailedAt            *time.Time       `json:"failed_at,omitempty"`
}
