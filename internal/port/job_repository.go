package port

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// JobRepository is the durable job record store, keyed by artifact name.
type JobRepository interface {
	// Create fails with model.ErrJobAlreadyExists and leaves the stored record untouched.
	Create(ctx context.Context, job *model.Job) error
	// Update replaces every mutable field. A write that lowers the retry count
	// or breaks the status lifecycle is logged and ignored.
	Update(ctx context.Context, job *model.Job) error
	GetByName(ctx context.Context, name string) (*model.Job, error)
	// Delete is a no-op when the record is absent.
	Delete(ctx context.Context, name string) error
	ListTerminalBefore(ctx context.Context, before time.Time) ([]*model.Job, error)
}
