package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/redis/go-redis/v9"
)

func completedJob(name string) *model.Job {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	j := model.NewJob(name, 2000, model.MediaTypeVideo, now)
	j.MarkProcessing(now)
	j.MarkCompleted(now.Add(time.Minute), model.JobResult{
		OriginalSize:     2000,
		CompressedSize:   500,
		CompressionRatio: 0.25,
		OutputName:       "step-7-processed-a.mp4",
		OutputURL:        "https://cdn/processed/step-7-processed-a.mp4",
		ProcessingTime:   12.5,
	})
	return j
}

func TestRealtimePublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, CompletionChannel)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	p := NewRealtimePublisher(rdb)
	if err := p.OnJobCompleted(ctx, completedJob("step-7-upload-a.mp4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(rctx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	var got realtimeMessage
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Target != "MediaProcessingComplete" || len(got.Arguments) != 1 {
		t.Fatalf("unexpected message %+v", got)
	}
	ev := got.Arguments[0]
	if ev.StepID != "7" || ev.Status != model.JobStatusCompleted || ev.CompressionRatio != 0.25 || ev.ProcessingTime != 12.5 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestRealtimePublisher_NoStepID(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, CompletionChannel)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := NewRealtimePublisher(rdb).OnJobCompleted(ctx, completedJob("upload-42.mp4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if msg, err := sub.ReceiveMessage(rctx); err == nil {
		t.Errorf("nothing should be published without a step id, got %q", msg.Payload)
	}
}

func TestRealtimePublisher_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	err := NewRealtimePublisher(rdb).OnJobCompleted(context.Background(), completedJob("step-7-a.mp4"))
	if !errors.Is(err, model.ErrNotificationFailed) {
		t.Fatalf("expected ErrNotificationFailed, got %v", err)
	}
}

func TestWebhook(t *testing.T) {
	var got CompletionEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s; want POST", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewWebhook(srv.URL).OnJobCompleted(context.Background(), completedJob("step-7-upload-a.mp4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StepID != "7" || got.BlobName != "step-7-upload-a.mp4" || got.CompressedURL == "" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestWebhook_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).OnJobCompleted(context.Background(), completedJob("step-7-a.mp4"))
	if !errors.Is(err, model.ErrNotificationFailed) {
		t.Fatalf("expected ErrNotificationFailed, got %v", err)
	}
}

func TestWebhook_NoStepID(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	if err := NewWebhook(srv.URL).OnJobCompleted(context.Background(), completedJob("upload-42.mp4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("webhook must be skipped without a step id")
	}
}

func TestDatabaseUpdater_Completed(t *testing.T) {
	var (
		gotPath, gotAuth string
		got              stepMediaUpdate
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s; want PUT", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	u := NewDatabaseUpdater(srv.URL+"/", "secret")
	if err := u.OnJobCompleted(context.Background(), completedJob("step-7-upload-a.mp4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/steps/7/media" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if got.ProcessingStatus != "completed" || got.OriginalSize != 2000 || got.CompressedSize != 500 || got.CompressionRatio != 0.25 {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestDatabaseUpdater_ReportFailure(t *testing.T) {
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("db down"))
	}))
	defer srv.Close()

	j := completedJob("step-9-clip.mov")
	err := NewDatabaseUpdater(srv.URL, "secret").ReportFailure(context.Background(), j, "ffmpeg exploded")
	if !errors.Is(err, model.ErrNotificationFailed) {
		t.Fatalf("expected ErrNotificationFailed, got %v", err)
	}
	if string(raw) != `{"processing_status":"error","error":"ffmpeg exploded"}` {
		t.Errorf("payload = %s", raw)
	}
}

func TestDatabaseUpdater_Skips(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	ctx := context.Background()
	if err := NewDatabaseUpdater("", "").OnJobCompleted(ctx, completedJob("step-1-a.mp4")); err != nil {
		t.Errorf("unconfigured updater must be a no-op, got %v", err)
	}
	if err := NewDatabaseUpdater(srv.URL, "secret").OnJobCompleted(ctx, completedJob("upload-42.mp4")); err != nil {
		t.Errorf("missing step id must be a no-op, got %v", err)
	}
	if called {
		t.Error("no request expected")
	}
}
