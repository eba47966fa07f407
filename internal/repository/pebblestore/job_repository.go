// Package pebblestore keeps job records in an embedded Pebble database, for
// single-node deployments that run without MariaDB.
package pebblestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

const keyPrefix = "job:"

type JobRepository struct {
	db *pebble.DB
	// serialises read-modify-write sequences (create, guarded update)
	mu sync.Mutex
}

// compile-time check: *JobRepository must satisfy port.JobRepository
var _ port.JobRepository = (*JobRepository)(nil)

func Open(path string) (*JobRepository, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble store at %q: %w", path, err)
	}
	return &JobRepository{db: db}, nil
}

func (r *JobRepository) Close() error {
	return r.db.Close()
}

func jobKey(name string) []byte {
	return []byte(keyPrefix + name)
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.get(job.Name); err == nil {
		return fmt.Errorf("%w: %q", model.ErrJobAlreadyExists, job.Name)
	} else if !errors.Is(err, model.ErrJobNotFound) {
		return err
	}
	logger.Debugf(ctx, "creating record for job %q, at status %q...", job.Name, job.Status)
	return r.put(job)
}

func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.get(job.Name)
	if err != nil {
		return err
	}
	if reason := current.UpdateConflict(job); reason != "" {
		logger.Warnf(ctx, "ignoring update of job %q: %s", job.Name, reason)
		return nil
	}
	// creation time is immutable
	updated := *job
	updated.CreatedAt = current.CreatedAt
	return r.put(&updated)
}

func (r *JobRepository) GetByName(_ context.Context, name string) (*model.Job, error) {
	return r.get(name)
}

func (r *JobRepository) Delete(_ context.Context, name string) error {
	if err := r.db.Delete(jobKey(name), pebble.Sync); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *JobRepository) ListTerminalBefore(ctx context.Context, before time.Time) ([]*model.Job, error) {
	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: prefixUpperBound([]byte(keyPrefix)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = iter.Close() }()

	var jobs []*model.Job
	for iter.First(); iter.Valid(); iter.Next() {
		var job model.Job
		if err := json.Unmarshal(iter.Value(), &job); err != nil {
			logger.Warnf(ctx, "skipping undecodable record %q: %v", iter.Key(), err)
			continue
		}
		ts := job.TerminalAt()
		if ts != nil && ts.Before(before) {
			jobs = append(jobs, &job)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return jobs, nil
}

func (r *JobRepository) get(name string) (*model.Job, error) {
	data, closer, err := r.db.Get(jobKey(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", model.ErrJobNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = closer.Close() }()

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %q: %w", name, err)
	}
	return &job, nil
}

func (r *JobRepository) put(job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %q: %w", job.Name, err)
	}
	if err := r.db.Set(jobKey(job.Name), data, pebble.Sync); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
