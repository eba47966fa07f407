package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further automatic transition is expected.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeImage MediaType = "image"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// HighPriorityThreshold is the size below which a job is dispatched without delay.
const HighPriorityThreshold int64 = 10 * 1024 * 1024

func PriorityForSize(sizeBytes int64) Priority {
	if sizeBytes < HighPriorityThreshold {
		return PriorityHigh
	}
	return PriorityNormal
}

var mediaTypesByExt = map[string]MediaType{
	".mp4":  MediaTypeVideo,
	".mov":  MediaTypeVideo,
	".avi":  MediaTypeVideo,
	".webm": MediaTypeVideo,
	".jpg":  MediaTypeImage,
	".jpeg": MediaTypeImage,
	".png":  MediaTypeImage,
	".gif":  MediaTypeImage,
	".webp": MediaTypeImage,
}

// MediaTypeFromName detects the media type from the artifact extension.
func MediaTypeFromName(name string) (MediaType, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mt, ok := mediaTypesByExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, ext)
	}
	return mt, nil
}

// OutputName derives the processed artifact name: the first "upload-" becomes
// "processed-", and images always end up as .webp.
func OutputName(name string, mt MediaType) string {
	out := strings.Replace(name, "upload-", "processed-", 1)
	if mt == MediaTypeImage {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".webp"
	}
	return out
}

// CompressionRatio guards the original size to at least one byte.
func CompressionRatio(originalSize, compressedSize int64) float64 {
	if originalSize < 1 {
		originalSize = 1
	}
	return float64(compressedSize) / float64(originalSize)
}

type Job struct {
	Name                string     `json:"name"`
	SizeBytes           int64      `json:"size_bytes"`
	MediaType           MediaType  `json:"media_type"`
	Status              JobStatus  `json:"status"`
	RetryCount          int        `json:"retry_count"`
	LastError           *string    `json:"last_error,omitempty"`
	Result              *JobResult `json:"result,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	ProcessingStartedAt *time.Time `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	FailedAt            *time.Time `json:"failed_at,omitempty"`

	// Profile and Overrides select the video encoder settings. An empty
	// profile means the one the worker is configured with.
	Profile   string              `json:"profile,omitempty"`
	Overrides *encoding.Overrides `json:"overrides,omitempty"`
}

// NewJob builds a fresh queued job for the given artifact.
func NewJob(name string, sizeBytes int64, mt MediaType, now time.Time) *Job {
	return &Job{
		Name:      name,
		SizeBytes: sizeBytes,
		MediaType: mt,
		Status:    JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (j *Job) Priority() Priority {
	return PriorityForSize(j.SizeBytes)
}

// TerminalAt returns the completion or failure timestamp, nil while in flight.
func (j *Job) TerminalAt() *time.Time {
	switch j.Status {
	case JobStatusCompleted:
		return j.CompletedAt
	case JobStatusFailed:
		return j.FailedAt
	default:
		return nil
	}
}

// CanTransitionTo reports whether moving to next follows the lifecycle.
// Rewriting the current status is always allowed.
func (j *Job) CanTransitionTo(next JobStatus) bool {
	if j.Status == next {
		return true
	}
	switch j.Status {
	case JobStatusQueued:
		return next == JobStatusProcessing || next == JobStatusFailed
	case JobStatusProcessing:
		return next == JobStatusCompleted || next == JobStatusQueued || next == JobStatusFailed
	default:
		return false
	}
}

// UpdateConflict explains why next must not replace the stored record j, or
// returns "" when the write may land. A lower retry count means next was read
// before a later failure was recorded.
func (j *Job) UpdateConflict(next *Job) string {
	if next.RetryCount < j.RetryCount {
		return fmt.Sprintf("retry count %d is behind stored %d", next.RetryCount, j.RetryCount)
	}
	if !j.CanTransitionTo(next.Status) {
		return fmt.Sprintf("transition %s -> %s is not allowed", j.Status, next.Status)
	}
	return ""
}

func (j *Job) MarkProcessing(now time.Time) {
	j.Status = JobStatusProcessing
	j.ProcessingStartedAt = &now
	j.UpdatedAt = now
}

func (j *Job) MarkCompleted(now time.Time, res JobResult) {
	j.Status = JobStatusCompleted
	j.Result = &res
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// RecordFailure bumps the retry counter and remembers the error. The caller
// decides whether the job goes back to the queue or fails for good.
func (j *Job) RecordFailure(now time.Time, msg string) {
	j.RetryCount++
	j.LastError = &msg
	j.UpdatedAt = now
}

func (j *Job) MarkRequeued(now time.Time) {
	j.Status = JobStatusQueued
	j.UpdatedAt = now
}

func (j *Job) MarkFailed(now time.Time, msg string) {
	j.Status = JobStatusFailed
	j.LastError = &msg
	j.FailedAt = &now
	j.UpdatedAt = now
}
