package cache

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// NoopCache is used when no Redis address is configured.
type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetJobDetails(ctx context.Context, name string) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagJobDetails(ctx context.Context, name string) (string, error) {
	return "", nil
}

func (n *NoopCache) SetJobDetails(ctx context.Context, name string, data []byte, validUntil time.Time) {
}

func (n *NoopCache) SetEtagJobDetails(ctx context.Context, name string, etag string, validUntil time.Time) {
}

func (n *NoopCache) DeleteJobDetails(ctx context.Context, name string) error { return nil }

func (n *NoopCache) DeleteEtagJobDetails(ctx context.Context, name string) error { return nil }
