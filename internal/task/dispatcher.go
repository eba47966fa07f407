package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/hibiken/asynq"
)

// infrastructure redeliveries, separate from the job retry budget
const processMaxRetry = 5

type Dispatcher struct {
	client asynqClient
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}

func (d *Dispatcher) EnqueueProcessMedia(ctx context.Context, msg model.QueueMessage, delay time.Duration) error {
	t, err := NewProcessMediaTask(msg)
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, t,
		asynq.Queue(QueueProcessing),
		asynq.TaskID(processTaskID(msg)),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(processMaxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Warnf(ctx, "attempt %d of job %q is already queued", msg.RetryCount, msg.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrQueueUnavailable, err)
	}
	logger.Infof(ctx, "queued job %q (priority %s, attempt %d) with a delay of %s", msg.Name, msg.Priority, msg.RetryCount, delay)
	return nil
}

func (d *Dispatcher) PublishPoison(ctx context.Context, msg model.QueueMessage, finalError string) error {
	t, err := NewPoisonMediaTask(msg, finalError)
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, t, asynq.Queue(QueuePoison), asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("%w: %v", model.ErrQueueUnavailable, err)
	}
	logger.Warnf(ctx, "job %q moved to the poison queue", msg.Name)
	return nil
}
