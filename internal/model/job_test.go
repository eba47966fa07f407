package model

import (
	"errors"
	"testing"
	"time"
)

func TestPriorityForSize(t *testing.T) {
	tests := []struct {
		size int64
		want Priority
	}{
		{0, PriorityHigh},
		{1024, PriorityHigh},
		{HighPriorityThreshold - 1, PriorityHigh},
		{HighPriorityThreshold, PriorityNormal},
		{HighPriorityThreshold + 1, PriorityNormal},
		{1 << 32, PriorityNormal},
	}
	for _, tc := range tests {
		if got := PriorityForSize(tc.size); got != tc.want {
			t.Errorf("PriorityForSize(%d) = %q; want %q", tc.size, got, tc.want)
		}
	}
}

func TestMediaTypeFromName(t *testing.T) {
	tests := []struct {
		name    string
		want    MediaType
		wantErr bool
	}{
		{"upload-42.mp4", MediaTypeVideo, false},
		{"clip.MOV", MediaTypeVideo, false},
		{"a.avi", MediaTypeVideo, false},
		{"photo.jpeg", MediaTypeImage, false},
		{"photo.PNG", MediaTypeImage, false},
		{"anim.gif", MediaTypeImage, false},
		{"doc.pdf", "", true},
		{"noext", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MediaTypeFromName(tc.name)
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q; want %q", got, tc.want)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name string
		mt   MediaType
		want string
	}{
		{"upload-42.mp4", MediaTypeVideo, "processed-42.mp4"},
		{"upload-photo.png", MediaTypeImage, "processed-photo.webp"},
		{"step-7-upload-upload-a.jpg", MediaTypeImage, "step-7-processed-upload-a.webp"},
		{"raw.mov", MediaTypeVideo, "raw.mov"},
	}
	for _, tc := range tests {
		if got := OutputName(tc.name, tc.mt); got != tc.want {
			t.Errorf("OutputName(%q) = %q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestCompressionRatio_ZeroOriginal(t *testing.T) {
	if got := CompressionRatio(0, 10); got != 10 {
		t.Errorf("ratio = %v; want 10", got)
	}
	if got := CompressionRatio(200, 50); got != 0.25 {
		t.Errorf("ratio = %v; want 0.25", got)
	}
}

func TestJob_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from JobStatus
		to   JobStatus
		want bool
	}{
		{JobStatusQueued, JobStatusProcessing, true},
		{JobStatusQueued, JobStatusFailed, true},
		{JobStatusQueued, JobStatusCompleted, false},
		{JobStatusProcessing, JobStatusCompleted, true},
		{JobStatusProcessing, JobStatusQueued, true},
		{JobStatusProcessing, JobStatusFailed, true},
		{JobStatusCompleted, JobStatusProcessing, false},
		{JobStatusCompleted, JobStatusQueued, false},
		{JobStatusFailed, JobStatusQueued, false},
		{JobStatusFailed, JobStatusFailed, true},
	}
	for _, tc := range tests {
		j := &Job{Status: tc.from}
		if got := j.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v; want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestJob_UpdateConflict(t *testing.T) {
	tests := []struct {
		name     string
		stored   Job
		next     Job
		conflict bool
	}{
		{"start processing", Job{Status: JobStatusQueued}, Job{Status: JobStatusProcessing}, false},
		{"requeue bumps retries", Job{Status: JobStatusProcessing, RetryCount: 1}, Job{Status: JobStatusQueued, RetryCount: 2}, false},
		{"same status rewrite", Job{Status: JobStatusCompleted}, Job{Status: JobStatusCompleted}, false},
		{"retry count behind", Job{Status: JobStatusQueued, RetryCount: 1}, Job{Status: JobStatusProcessing}, true},
		{"leave terminal", Job{Status: JobStatusFailed, RetryCount: 3}, Job{Status: JobStatusQueued, RetryCount: 3}, true},
		{"skip processing", Job{Status: JobStatusQueued}, Job{Status: JobStatusCompleted}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.stored.UpdateConflict(&tc.next)
			if (got != "") != tc.conflict {
				t.Errorf("UpdateConflict = %q; want conflict %v", got, tc.conflict)
			}
		})
	}
}

func TestJob_Lifecycle(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	j := NewJob("upload-42.mp4", 5<<20, MediaTypeVideo, now)
	if j.Status != JobStatusQueued || j.RetryCount != 0 {
		t.Fatalf("unexpected new job: %+v", j)
	}
	if j.TerminalAt() != nil {
		t.Error("queued job must not have a terminal timestamp")
	}

	j.MarkProcessing(now.Add(time.Second))
	j.RecordFailure(now.Add(2*time.Second), "boom")
	j.MarkRequeued(now.Add(2 * time.Second))
	if j.Status != JobStatusQueued || j.RetryCount != 1 || *j.LastError != "boom" {
		t.Fatalf("unexpected requeued job: %+v", j)
	}

	j.MarkProcessing(now.Add(3 * time.Minute))
	j.MarkCompleted(now.Add(4*time.Minute), JobResult{CompressedSize: 10})
	if ts := j.TerminalAt(); ts == nil || !ts.Equal(now.Add(4*time.Minute)) {
		t.Errorf("TerminalAt = %v; want %v", ts, now.Add(4*time.Minute))
	}
	if j.RetryCount != 1 {
		t.Errorf("RetryCount = %d; want 1", j.RetryCount)
	}
}

func TestQueueMessage_Validate(t *testing.T) {
	now := time.Now()
	valid := NewQueueMessage(NewJob("upload-1.mp4", 20<<20, MediaTypeVideo, now))
	if valid.Priority != PriorityNormal {
		t.Fatalf("priority = %q; want normal", valid.Priority)
	}
	if !valid.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v; want %v", valid.CreatedAt, now)
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		mod  func(m *QueueMessage)
	}{
		{"missing name", func(m *QueueMessage) { m.Name = "" }},
		{"negative size", func(m *QueueMessage) { m.SizeBytes = -1 }},
		{"negative retry", func(m *QueueMessage) { m.RetryCount = -1 }},
		{"unknown priority", func(m *QueueMessage) { m.Priority = "urgent" }},
		{"unknown profile", func(m *QueueMessage) { m.Profile = "cinema" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := valid
			tc.mod(&m)
			if err := m.Validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
