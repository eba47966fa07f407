package mock

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

// Dispatcher implements port.TaskDispatcher for tests.
type Dispatcher struct {
	EnqueueErr error
	PoisonErr  error

	Enqueued    []model.QueueMessage
	Delays      []time.Duration
	Poisoned    []model.QueueMessage
	FinalErrors []string
}

func (d *Dispatcher) EnqueueProcessMedia(ctx context.Context, msg model.QueueMessage, delay time.Duration) error {
	d.Enqueued = append(d.Enqueued, msg)
	d.Delays = append(d.Delays, delay)
	return d.EnqueueErr
}

func (d *Dispatcher) PublishPoison(ctx context.Context, msg model.QueueMessage, finalError string) error {
	d.Poisoned = append(d.Poisoned, msg)
	d.FinalErrors = append(d.FinalErrors, finalError)
	return d.PoisonErr
}
