// Package probe reads source video properties with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
)

// Runner executes ffprobe and returns its stdout.
type Runner func(ctx context.Context, bin string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, bin, args...).Output()
}

type Prober struct {
	bin string
	run Runner
}

func NewProber(bin string) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{bin: bin, run: execRunner}
}

// NewProberWithRunner is used by tests to avoid a real ffprobe binary.
func NewProberWithRunner(bin string, run Runner) *Prober {
	p := NewProber(bin)
	p.run = run
	return p
}

// Probe never fails: any error is logged and reported as Unavailable so the
// caller falls back to re-encoding.
func (p *Prober) Probe(ctx context.Context, path string) encoding.ProbeResult {
	out, err := p.run(ctx, p.bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	if err != nil {
		logger.Warnf(ctx, "ffprobe failed on %q, falling back to re-encode: %v", path, err)
		return encoding.Unavailable()
	}

	res, err := ParseJSON(out)
	if err != nil {
		logger.Warnf(ctx, "could not parse ffprobe output for %q: %v", path, err)
		return encoding.Unavailable()
	}
	return res
}

// ParseJSON converts raw ffprobe JSON into a probe result. A file without a
// video stream is reported as Unavailable.
func ParseJSON(data []byte) (encoding.ProbeResult, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return encoding.Unavailable(), fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	for _, s := range raw.Streams {
		if s.CodecType != "video" || s.Disposition["attached_pic"] == 1 {
			continue
		}
		bitrate := parseInt64(s.BitRate)
		if bitrate <= 0 {
			bitrate = parseInt64(raw.Format.BitRate)
		}
		return encoding.Probed(encoding.SourceProperties{
			Codec:   s.CodecName,
			Width:   s.Width,
			Height:  s.Height,
			Bitrate: bitrate,
		}), nil
	}
	return encoding.Unavailable(), nil
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	BitRate     string         `json:"bit_rate"`
	Disposition map[string]int `json:"disposition"`
}

// ffprobe reports numbers as strings
func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
