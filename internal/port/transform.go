package port

import (
	"context"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
)

// TransformResult points at a temporary output file owned by the caller.
type TransformResult struct {
	OutputPath  string
	OutputSize  int64
	ContentType string
	Format      string
	Duration    time.Duration
}

// TransformExecutor drives the external transcoder and the image encoder.
// On failure no output file is left behind.
type TransformExecutor interface {
	ExecuteVideo(ctx context.Context, srcPath string, d encoding.Decision) (*TransformResult, error)
	ExecuteImage(ctx context.Context, srcPath string) (*TransformResult, error)
}

// Prober measures a source video. It never fails, it degrades to encoding.Unavailable.
type Prober interface {
	Probe(ctx context.Context, path string) encoding.ProbeResult
}
