package task

import (
	"errors"
	"testing"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/hibiken/asynq"
)

func TestProcessMediaTask_RoundTrip(t *testing.T) {
	lastErr := "ffmpeg exited with 1"
	msg := model.QueueMessage{Name: "upload-42.mp4", SizeBytes: 5 << 20, Priority: model.PriorityHigh, RetryCount: 1, LastError: &lastErr}

	tsk, err := NewProcessMediaTask(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tsk.Type() != TypeProcessMedia {
		t.Errorf("type = %q; want %q", tsk.Type(), TypeProcessMedia)
	}

	got, err := ParseProcessMediaPayload(tsk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != msg.Name || got.RetryCount != 1 || got.LastError == nil || *got.LastError != lastErr {
		t.Errorf("got %+v; want %+v", got, msg)
	}
}

func TestParseProcessMediaPayload_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantVal bool
	}{
		{"not json", `{`, false},
		{"missing name", `{"size_bytes":1,"priority":"high"}`, true},
		{"bad priority", `{"name":"a.mp4","size_bytes":1,"priority":"urgent"}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseProcessMediaPayload(asynq.NewTask(TypeProcessMedia, []byte(tc.payload)))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, model.ErrValidation) != tc.wantVal {
				t.Errorf("validation error = %v; want %v (%v)", errors.Is(err, model.ErrValidation), tc.wantVal, err)
			}
		})
	}
}

func TestPoisonPayload(t *testing.T) {
	msg := model.QueueMessage{Name: "upload-1.mov", SizeBytes: 12, Priority: model.PriorityHigh, RetryCount: 3}
	tsk, err := NewPoisonMediaTask(msg, "boom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := ParsePoisonPayload(tsk.Payload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != msg.Name || p.RetryCount != 3 || p.FinalError != "boom" {
		t.Errorf("unexpected payload %+v", p)
	}
}
