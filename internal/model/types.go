package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JobResult is the metadata attached to a completed job.
type JobResult struct {
	OriginalSize     int64   `json:"original_size"`
	CompressedSize   int64   `json:"compressed_size"`
	CompressionRatio float64 `json:"compression_ratio"`
	OutputName       string  `json:"processed_blob_name"`
	OutputURL        string  `json:"output_url"`
	ProcessingTime   float64 `json:"processing_time"` // seconds
	Profile          string  `json:"profile,omitempty"`
	SkippedReencode  bool    `json:"skipped_reencode"`
	Format           string  `json:"format,omitempty"`
}

func (r JobResult) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal JobResult: %w", err)
	}
	return b, nil
}

func (r *JobResult) Scan(src interface{}) error {
	if src == nil {
		*r = JobResult{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("JobResult.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("unmarshal JobResult: %w", err)
	}
	return nil
}
