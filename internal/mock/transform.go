package mock

import (
	"context"
	"os"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// Executor implements port.TransformExecutor for tests. On success it writes
// OutputData to a real temporary file, like the real executor.
type Executor struct {
	OutputData  []byte
	ContentType string
	Format      string

	VideoErr error
	ImageErr error

	GotSource   string
	GotDecision encoding.Decision
	OutputPath  string

	VideoCalled bool
	ImageCalled bool
}

func (e *Executor) ExecuteVideo(ctx context.Context, srcPath string, d encoding.Decision) (*port.TransformResult, error) {
	e.VideoCalled = true
	e.GotSource = srcPath
	e.GotDecision = d
	if e.VideoErr != nil {
		return nil, e.VideoErr
	}
	return e.write("video/mp4", "mp4")
}

func (e *Executor) ExecuteImage(ctx context.Context, srcPath string) (*port.TransformResult, error) {
	e.ImageCalled = true
	e.GotSource = srcPath
	if e.ImageErr != nil {
		return nil, e.ImageErr
	}
	return e.write(encoding.ImageContentType, encoding.ImageFormat)
}

func (e *Executor) write(ct, format string) (*port.TransformResult, error) {
	f, err := os.CreateTemp("", "mock-transform-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(e.OutputData); err != nil {
		return nil, err
	}
	if e.ContentType != "" {
		ct = e.ContentType
	}
	if e.Format != "" {
		format = e.Format
	}
	e.OutputPath = f.Name()
	return &port.TransformResult{
		OutputPath:  f.Name(),
		OutputSize:  int64(len(e.OutputData)),
		ContentType: ct,
		Format:      format,
		Duration:    time.Second,
	}, nil
}

// Prober implements port.Prober for tests.
type Prober struct {
	Result encoding.ProbeResult
	Called bool
}

func (p *Prober) Probe(ctx context.Context, path string) encoding.ProbeResult {
	p.Called = true
	return p.Result
}
