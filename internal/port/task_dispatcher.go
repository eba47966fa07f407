package port

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// TaskDispatcher routes job messages to the work queue and the dead-letter queue.
type TaskDispatcher interface {
	// EnqueueProcessMedia makes msg visible to workers once delay has elapsed.
	EnqueueProcessMedia(ctx context.Context, msg model.QueueMessage, delay time.Duration) error
	// PublishPoison parks msg for manual inspection.
	PublishPoison(ctx context.Context, msg model.QueueMessage, finalError string) error
}
