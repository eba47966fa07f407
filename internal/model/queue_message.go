package model

import (
	"fmt"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
)

// QueueMessage is the transient copy of a job carried by the work queue.
// The job store stays authoritative for status.
type QueueMessage struct {
	Name       string   `json:"name"`
	SizeBytes  int64    `json:"size_bytes"`
	Priority   Priority `json:"priority"`
	RetryCount int      `json:"retry_count"`
	LastError  *string  `json:"last_error,omitempty"`
	// CreatedAt tells apart two records that reused the same name.
	CreatedAt time.Time `json:"created_at"`

	Profile   string              `json:"profile,omitempty"`
	Overrides *encoding.Overrides `json:"overrides,omitempty"`
}

// NewQueueMessage snapshots the fields of j the worker needs.
func NewQueueMessage(j *Job) QueueMessage {
	return QueueMessage{
		Name:       j.Name,
		SizeBytes:  j.SizeBytes,
		Priority:   j.Priority(),
		RetryCount: j.RetryCount,
		LastError:  j.LastError,
		CreatedAt:  j.CreatedAt,
		Profile:    j.Profile,
		Overrides:  j.Overrides,
	}
}

// Validate checks the required fields at the queue boundary.
func (m QueueMessage) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if m.SizeBytes < 0 {
		return fmt.Errorf("%w: negative size %d", ErrValidation, m.SizeBytes)
	}
	if m.RetryCount < 0 {
		return fmt.Errorf("%w: negative retry count %d", ErrValidation, m.RetryCount)
	}
	if m.Profile != "" && !encoding.IsKnownProfile(m.Profile) {
		return fmt.Errorf("%w: unknown profile %q", ErrValidation, m.Profile)
	}
	switch m.Priority {
	case PriorityHigh, PriorityNormal:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, m.Priority)
	}
	return nil
}
