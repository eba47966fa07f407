package mock

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// JobRepo implements port.JobRepository for tests. Updates are recorded as
// value snapshots so a test can check the exact sequence of writes.
type JobRepo struct {
	JobRecord *model.Job
	ListOut   []*model.Job

	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
	ListErr   error
	// DeleteErrFor fails Delete for the named jobs only.
	DeleteErrFor map[string]error

	Created    *model.Job
	Updated    []model.Job
	Deleted    []string
	ListBefore time.Time

	GetCalled  bool
	ListCalled bool
}

func (m *JobRepo) Create(ctx context.Context, job *model.Job) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = job
	return nil
}

func (m *JobRepo) Update(ctx context.Context, job *model.Job) error {
	m.Updated = append(m.Updated, *job)
	return m.UpdateErr
}

func (m *JobRepo) GetByName(ctx context.Context, name string) (*model.Job, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.JobRecord, nil
}

func (m *JobRepo) Delete(ctx context.Context, name string) error {
	if err, ok := m.DeleteErrFor[name]; ok {
		return err
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, name)
	return nil
}

func (m *JobRepo) ListTerminalBefore(ctx context.Context, before time.Time) ([]*model.Job, error) {
	m.ListCalled = true
	m.ListBefore = before
	return m.ListOut, m.ListErr
}

// LastUpdate returns the most recent recorded update, nil if none.
func (m *JobRepo) LastUpdate() *model.Job {
	if len(m.Updated) == 0 {
		return nil
	}
	j := m.Updated[len(m.Updated)-1]
	return &j
}
