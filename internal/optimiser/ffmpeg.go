package optimiser

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
)

const audioBitrate = "128k"

// BuildVideoArgs turns a Decision into an ffmpeg argument list writing an MP4
// to dst. The output is always moov-first so it can start playing while downloading.
func BuildVideoArgs(src, dst string, d encoding.Decision) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", src}

	if !d.NeedsReencode {
		args = append(args, "-c", encoding.CopyCodec)
	} else {
		args = append(args,
			"-c:v", d.Codec,
			"-preset", d.Preset,
			"-b:v", d.TargetBitrate,
			"-maxrate", d.MaxBitrate,
			"-bufsize", d.BufferSize,
			"-pix_fmt", "yuv420p",
			"-vf", d.ScaleFilter(),
		)
		if d.MuteAudio {
			args = append(args, "-an")
		} else {
			args = append(args, "-c:a", "aac", "-b:a", audioBitrate)
		}
	}

	if d.StreamingOptimised {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, "-f", "mp4", dst)
}

func execRunner(ctx context.Context, bin string, args ...string) ([]byte, int, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stderr.Bytes(), 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stderr.Bytes(), exitErr.ExitCode(), err
	}
	return stderr.Bytes(), -1, err
}
