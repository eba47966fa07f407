package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported file type", ErrValidation)
	ErrMissingName          = fmt.Errorf("%w: artifact name is required", ErrValidation)

	ErrJobNotFound      = errors.New("job not found")
	ErrJobAlreadyExists = errors.New("job already exists")

	ErrStoreUnavailable   = errors.New("job store unavailable")
	ErrQueueUnavailable   = errors.New("queue unavailable")
	ErrNotificationFailed = errors.New("notification failed")
)

// TransformError reports a failed or timed out transcoder run.
type TransformError struct {
	ExitCode   int
	Diagnostic string
}

func (e *TransformError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("transform failed with exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("transform failed with exit code %d: %s", e.ExitCode, e.Diagnostic)
}
