package task

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// NoopDispatcher is used by the API when Redis is not configured. Status
// queries keep working while every enqueue is reported as a queue outage.
type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueProcessMedia(ctx context.Context, msg model.QueueMessage, delay time.Duration) error {
	return fmt.Errorf("%w: no queue configured", model.ErrQueueUnavailable)
}

func (d *NoopDispatcher) PublishPoison(ctx context.Context, msg model.QueueMessage, finalError string) error {
	return fmt.Errorf("%w: no queue configured", model.ErrQueueUnavailable)
}
