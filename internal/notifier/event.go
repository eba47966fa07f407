package notifier

import (
	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// CompletionEvent is the document pushed to listeners once a job completed.
type CompletionEvent struct {
	StepID           string          `json:"step_id"`
	BlobName         string          `json:"blob_name"`
	Status           model.JobStatus `json:"status"`
	CompressedURL    string          `json:"compressed_url"`
	CompressionRatio float64         `json:"compression_ratio"`
	ProcessingTime   float64         `json:"processing_time"`
}

func newCompletionEvent(stepID string, job *model.Job) CompletionEvent {
	ev := CompletionEvent{
		StepID:   stepID,
		BlobName: job.Name,
		Status:   job.Status,
	}
	if job.Result != nil {
		ev.CompressedURL = job.Result.OutputURL
		ev.CompressionRatio = job.Result.CompressionRatio
		ev.ProcessingTime = job.Result.ProcessingTime
	}
	return ev
}
