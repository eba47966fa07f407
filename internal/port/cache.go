package port

import (
	"context"
	"time"
)

// Cache keeps rendered job status documents and their ETags.
type Cache interface {
	GetJobDetails(ctx context.Context, name string) ([]byte, error)
	GetEtagJobDetails(ctx context.Context, name string) (string, error)
	SetJobDetails(ctx context.Context, name string, data []byte, validUntil time.Time)
	SetEtagJobDetails(ctx context.Context, name string, etag string, validUntil time.Time)
	DeleteJobDetails(ctx context.Context, name string) error
	DeleteEtagJobDetails(ctx context.Context, name string) error
}
