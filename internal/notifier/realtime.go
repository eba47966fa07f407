package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/redis/go-redis/v9"
)

const (
	CompletionChannel = "media:processing-complete"
	completionTarget  = "MediaProcessingComplete"
)

type realtimeMessage struct {
	Target    string            `json:"target"`
	Arguments []CompletionEvent `json:"arguments"`
}

// RealtimePublisher broadcasts completion events over Redis pub/sub.
type RealtimePublisher struct {
	client  *redis.Client
	channel string
}

// compile-time check: *RealtimePublisher must satisfy port.CompletionHook
var _ port.CompletionHook = (*RealtimePublisher)(nil)

func NewRealtimePublisher(client *redis.Client) *RealtimePublisher {
	return &RealtimePublisher{client: client, channel: CompletionChannel}
}

func (p *RealtimePublisher) Name() string { return "realtime" }

func (p *RealtimePublisher) OnJobCompleted(ctx context.Context, job *model.Job) error {
	stepID, ok := ExtractStepID(job.Name)
	if !ok {
		logger.Infof(ctx, "skipping real-time notification: no step id in %q", job.Name)
		return nil
	}

	data, err := json.Marshal(realtimeMessage{
		Target:    completionTarget,
		Arguments: []CompletionEvent{newCompletionEvent(stepID, job)},
	})
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("%w: publish on %q: %v", model.ErrNotificationFailed, p.channel, err)
	}
	return nil
}
