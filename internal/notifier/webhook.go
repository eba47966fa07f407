package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

const webhookTimeout = 10 * time.Second

// Webhook POSTs the completion event to an external URL.
type Webhook struct {
	url    string
	client *http.Client
}

// compile-time check: *Webhook must satisfy port.CompletionHook
var _ port.CompletionHook = (*Webhook)(nil)

func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, client: &http.Client{Timeout: webhookTimeout}}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) OnJobCompleted(ctx context.Context, job *model.Job) error {
	stepID, ok := ExtractStepID(job.Name)
	if !ok {
		logger.Infof(ctx, "skipping webhook: no step id in %q", job.Name)
		return nil
	}

	body, err := json.Marshal(newCompletionEvent(stepID, job))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: webhook: %v", model.ErrNotificationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Infof(ctx, "webhook notification sent: %d", resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: webhook answered %d", model.ErrNotificationFailed, resp.StatusCode)
	}
	return nil
}
