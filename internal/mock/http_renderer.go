package mock

import (
	"context"

	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// HTTPRenderer implements port.HTTPRenderer for tests.
type HTTPRenderer struct {
	// stored values
	JobOut  []byte
	EtagJob string

	// captured inputs
	GotName string

	// errors
	GetJobErr error

	// call flags
	GetJobCalled bool
}

func (m *HTTPRenderer) RenderGetJob(ctx context.Context, getter port.JobGetter, name string) ([]byte, string, error) {
	m.GetJobCalled = true
	m.GotName = name
	return m.JobOut, m.EtagJob, m.GetJobErr
}
