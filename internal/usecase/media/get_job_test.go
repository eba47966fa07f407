package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/mock"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

func TestGetJob_NotFound(t *testing.T) {
	repo := &mock.JobRepo{GetErr: model.ErrJobNotFound}
	_, err := NewJobGetter(repo, DefaultConfig()).GetJob(context.Background(), "upload-1.mp4")
	if !errors.Is(err, model.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestGetJob_ValidUntil(t *testing.T) {
	inFlight := queuedJob("upload-1.mp4", 10, model.MediaTypeVideo)
	inFlight.MarkProcessing(testNow)

	tests := []struct {
		name      string
		job       *model.Job
		wantUntil time.Time
		wantErr   bool
	}{
		{"in flight is never cached", inFlight, time.Time{}, false},
		{"completed until retention ends", completedJob("upload-2.mp4"), testNow.Add(DefaultRetentionWindow), false},
		{"failed until retention ends", failedJob("upload-3.png"), testNow.Add(DefaultRetentionWindow), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := NewJobGetter(&mock.JobRepo{JobRecord: tc.job}, DefaultConfig()).GetJob(context.Background(), tc.job.Name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !out.ValidUntil.Equal(tc.wantUntil) {
				t.Errorf("ValidUntil = %v; want %v", out.ValidUntil, tc.wantUntil)
			}
			if (out.ErrorMessage != nil) != tc.wantErr {
				t.Errorf("ErrorMessage = %v; want present=%v", out.ErrorMessage, tc.wantErr)
			}
			if out.Name != tc.job.Name || out.Status != tc.job.Status {
				t.Errorf("unexpected output: %+v", out)
			}
		})
	}
}

func TestGetJob_ShortLinkBoundsValidity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputURLTTL = time.Minute
	out, err := NewJobGetter(&mock.JobRepo{JobRecord: completedJob("upload-1.mp4")}, cfg).GetJob(context.Background(), "upload-1.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := testNow.Add(time.Minute); !out.ValidUntil.Equal(want) {
		t.Errorf("ValidUntil = %v; want %v", out.ValidUntil, want)
	}
	if out.Result == nil || out.Result.OutputName != "processed-1.mp4" {
		t.Errorf("unexpected result: %+v", out.Result)
	}
}
