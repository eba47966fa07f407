package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

const databaseTimeout = 20 * time.Second

// DatabaseUpdater writes the processing outcome onto the owning application's
// step record. It does nothing when the API is not configured or the artifact
// name carries no step id.
type DatabaseUpdater struct {
	baseURL string
	token   string
	client  *http.Client
}

var (
	_ port.CompletionHook  = (*DatabaseUpdater)(nil)
	_ port.FailureReporter = (*DatabaseUpdater)(nil)
)

func NewDatabaseUpdater(baseURL, token string) *DatabaseUpdater {
	return &DatabaseUpdater{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: databaseTimeout},
	}
}

type stepMediaUpdate struct {
	ProcessingStatus string  `json:"processing_status"`
	CompressedURL    string  `json:"compressed_url"`
	OriginalSize     int64   `json:"original_size"`
	CompressedSize   int64   `json:"compressed_size"`
	CompressionRatio float64 `json:"compression_ratio"`
}

type stepMediaError struct {
	ProcessingStatus string `json:"processing_status"`
	Error            string `json:"error"`
}

func (u *DatabaseUpdater) Name() string { return "database" }

func (u *DatabaseUpdater) OnJobCompleted(ctx context.Context, job *model.Job) error {
	stepID, ok := u.target(ctx, job.Name)
	if !ok {
		return nil
	}

	payload := stepMediaUpdate{ProcessingStatus: string(job.Status)}
	if job.Result != nil {
		payload.CompressedURL = job.Result.OutputURL
		payload.OriginalSize = job.Result.OriginalSize
		payload.CompressedSize = job.Result.CompressedSize
		payload.CompressionRatio = job.Result.CompressionRatio
	}
	if err := u.put(ctx, stepID, payload); err != nil {
		return err
	}
	logger.Infof(ctx, "updated step %s with the outcome of job %q", stepID, job.Name)
	return nil
}

func (u *DatabaseUpdater) ReportFailure(ctx context.Context, job *model.Job, errMsg string) error {
	stepID, ok := u.target(ctx, job.Name)
	if !ok {
		return nil
	}
	return u.put(ctx, stepID, stepMediaError{ProcessingStatus: "error", Error: errMsg})
}

func (u *DatabaseUpdater) target(ctx context.Context, name string) (string, bool) {
	if u.baseURL == "" || u.token == "" {
		logger.Warn(ctx, "API_BASE_URL or API_TOKEN missing; skipping step update")
		return "", false
	}
	stepID, ok := ExtractStepID(name)
	if !ok {
		logger.Infof(ctx, "skipping step update: no step id in %q", name)
		return "", false
	}
	return stepID, true
}

func (u *DatabaseUpdater) put(ctx context.Context, stepID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal step update: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/steps/%s/media", u.baseURL, stepID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build step update request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: step update: %v", model.ErrNotificationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: step update answered %d: %s", model.ErrNotificationFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
