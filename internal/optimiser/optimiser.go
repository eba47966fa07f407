package optimiser

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	xdraw "golang.org/x/image/draw"
)

// maxDiagnostic bounds how much transcoder stderr ends up in a job's last error.
const maxDiagnostic = 2000

// Optimiser executes transform plans. Video goes through ffmpeg under a hard
// time limit, images are re-encoded to WebP in process.
type Optimiser struct {
	ffmpeg  string
	timeout time.Duration
	webpEnc WebPEncoder
	run     CommandRunner
}

// compile-time check: *Optimiser must satisfy port.TransformExecutor
var _ port.TransformExecutor = (*Optimiser)(nil)

func NewOptimiser(ffmpegPath string, timeout time.Duration, webpEnc WebPEncoder) *Optimiser {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Optimiser{
		ffmpeg:  ffmpegPath,
		timeout: timeout,
		webpEnc: webpEnc,
		run:     execRunner,
	}
}

// WithRunner swaps the process runner, for tests.
func (o *Optimiser) WithRunner(run CommandRunner) *Optimiser {
	o.run = run
	return o
}

func (o *Optimiser) ExecuteVideo(ctx context.Context, srcPath string, d encoding.Decision) (*port.TransformResult, error) {
	out, err := os.CreateTemp("", "transform-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("optimiser: could not create temp output: %w", err)
	}
	outPath := out.Name()
	_ = out.Close()

	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	args := BuildVideoArgs(srcPath, outPath, d)
	logger.Infof(ctx, "running %s %s", o.ffmpeg, strings.Join(args, " "))

	start := time.Now()
	stderr, code, err := o.run(runCtx, o.ffmpeg, args...)
	if err != nil {
		removeTemp(ctx, outPath)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &model.TransformError{ExitCode: -1, Diagnostic: fmt.Sprintf("timed out after %s", o.timeout)}
		}
		diag := tail(string(stderr), maxDiagnostic)
		if diag == "" {
			diag = err.Error()
		}
		return nil, &model.TransformError{ExitCode: code, Diagnostic: diag}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		removeTemp(ctx, outPath)
		return nil, fmt.Errorf("optimiser: transcoder produced no output: %w", err)
	}

	return &port.TransformResult{
		OutputPath:  outPath,
		OutputSize:  info.Size(),
		ContentType: "video/mp4",
		Format:      "mp4",
		Duration:    time.Since(start),
	}, nil
}

func (o *Optimiser) ExecuteImage(ctx context.Context, srcPath string) (*port.TransformResult, error) {
	start := time.Now()

	in, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("optimiser: could not open source image: %w", err)
	}
	defer func() { _ = in.Close() }()

	img, format, err := o.webpEnc.Decode(in)
	if err != nil {
		return nil, &model.TransformError{ExitCode: 1, Diagnostic: fmt.Sprintf("failed to decode image: %v", err)}
	}

	b := img.Bounds()
	plan := encoding.PlanImage(b.Dx(), b.Dy())
	img = normalise(img)
	if plan.Resize {
		logger.Debugf(ctx, "resizing %s image from %dx%d to %dx%d", format, b.Dx(), b.Dy(), plan.Width, plan.Height)
		dst := image.NewNRGBA(image.Rect(0, 0, plan.Width, plan.Height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = dst
	}

	out, err := os.CreateTemp("", "transform-*."+plan.Format)
	if err != nil {
		return nil, fmt.Errorf("optimiser: could not create temp output: %w", err)
	}
	outPath := out.Name()

	if err := o.webpEnc.Encode(img, plan.Quality, out); err != nil {
		_ = out.Close()
		removeTemp(ctx, outPath)
		return nil, &model.TransformError{ExitCode: 1, Diagnostic: fmt.Sprintf("failed to encode WebP: %v", err)}
	}
	if err := out.Close(); err != nil {
		removeTemp(ctx, outPath)
		return nil, fmt.Errorf("optimiser: could not flush output: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		removeTemp(ctx, outPath)
		return nil, fmt.Errorf("optimiser: could not stat output: %w", err)
	}

	return &port.TransformResult{
		OutputPath:  outPath,
		OutputSize:  info.Size(),
		ContentType: encoding.ImageContentType,
		Format:      plan.Format,
		Duration:    time.Since(start),
	}, nil
}

// normalise converts palette and CMYK-style images to a plain RGBA model.
// Paletted images keep their alpha only when the palette is transparent.
func normalise(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.RGBA, *image.NRGBA:
		return img
	case *image.Paletted:
		if paletteHasAlpha(src.Palette) {
			dst := image.NewNRGBA(src.Bounds())
			draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
			return dst
		}
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func removeTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf(ctx, "failed to remove temp file %q: %v", path, err)
	}
}
