// Package repository holds the job store implementations and the helpers
// shared by all of them.
package repository

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// TimeoutRepository bounds every call to the wrapped store.
type TimeoutRepository struct {
	next    port.JobRepository
	timeout time.Duration
}

// compile-time check: *TimeoutRepository must satisfy port.JobRepository
var _ port.JobRepository = (*TimeoutRepository)(nil)

// WithTimeout wraps next; a non-positive timeout returns next unchanged.
func WithTimeout(next port.JobRepository, timeout time.Duration) port.JobRepository {
	if timeout <= 0 {
		return next
	}
	return &TimeoutRepository{next: next, timeout: timeout}
}

func (r *TimeoutRepository) Create(ctx context.Context, job *model.Job) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Create(ctx, job)
}

func (r *TimeoutRepository) Update(ctx context.Context, job *model.Job) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Update(ctx, job)
}

func (r *TimeoutRepository) GetByName(ctx context.Context, name string) (*model.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.GetByName(ctx, name)
}

func (r *TimeoutRepository) Delete(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Delete(ctx, name)
}

func (r *TimeoutRepository) ListTerminalBefore(ctx context.Context, before time.Time) ([]*model.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.ListTerminalBefore(ctx, before)
}
