package mock

import (
	"context"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// Hook implements port.CompletionHook for tests.
type Hook struct {
	HookName string
	Err      error
	Panic    bool

	Called bool
	Job    model.Job
}

func (h *Hook) Name() string {
	if h.HookName == "" {
		return "mock"
	}
	return h.HookName
}

func (h *Hook) OnJobCompleted(ctx context.Context, job *model.Job) error {
	h.Called = true
	h.Job = *job
	if h.Panic {
		panic("hook exploded")
	}
	return h.Err
}

// FailureReporter implements port.FailureReporter for tests.
type FailureReporter struct {
	Err error

	Called bool
	Job    model.Job
	ErrMsg string
}

func (f *FailureReporter) ReportFailure(ctx context.Context, job *model.Job, errMsg string) error {
	f.Called = true
	f.Job = *job
	f.ErrMsg = errMsg
	return f.Err
}
