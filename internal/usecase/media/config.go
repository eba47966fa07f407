package media

import (
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/config"
	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
)

const (
	UploadsBucket   = "uploads"
	ProcessedBucket = "processed"

	// NormalPriorityDelay postpones large artifacts so small ones go first.
	NormalPriorityDelay = 30 * time.Second

	DefaultMaxRetryAttempts = 3
	DefaultRetentionWindow  = 10 * time.Minute
	DefaultOutputURLTTL     = time.Hour

	// maxBackoffShift caps 2^n minutes well below any overflow.
	maxBackoffShift = 16
)

// Config carries the tunables shared by the job use cases.
type Config struct {
	UploadsBucket    string
	ProcessedBucket  string
	MaxRetryAttempts int
	RetentionWindow  time.Duration
	OutputURLTTL     time.Duration
	Profile          encoding.Profile
}

func DefaultConfig() Config {
	return Config{
		UploadsBucket:    UploadsBucket,
		ProcessedBucket:  ProcessedBucket,
		MaxRetryAttempts: DefaultMaxRetryAttempts,
		RetentionWindow:  DefaultRetentionWindow,
		OutputURLTTL:     DefaultOutputURLTTL,
		Profile:          encoding.LookupProfile(encoding.DefaultProfile),
	}
}

// DispatchDelay is the visibility delay of a first attempt.
func DispatchDelay(p model.Priority) time.Duration {
	if p == model.PriorityHigh {
		return 0
	}
	return NormalPriorityDelay
}

// RetryBackoff is 2^retryCount minutes: 2, 4, 8 for attempts 1, 2, 3.
func RetryBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount > maxBackoffShift {
		retryCount = maxBackoffShift
	}
	return time.Duration(1<<retryCount) * time.Minute
}

// ConfigFromSettings maps the process settings onto the use case tunables.
func ConfigFromSettings(s *config.Settings) Config {
	return Config{
		UploadsBucket:    s.UploadsBucket,
		ProcessedBucket:  s.ProcessedBucket,
		MaxRetryAttempts: s.MaxRetryAttempts,
		RetentionWindow:  s.RetentionWindow,
		OutputURLTTL:     s.OutputURLTTL,
		Profile:          encoding.LookupProfile(s.VideoProfile),
	}
}
