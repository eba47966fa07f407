// Package encoding decides whether and how a source video gets transcoded,
// and how images are converted. Everything here is pure: the same inputs
// always produce the same Decision.
package encoding

import "fmt"

const (
	TargetCodec   = "h264"
	TargetEncoder = "libx264"
	CopyCodec     = "copy"
)

// Decision is the derived transform plan for one video job. It is never persisted.
type Decision struct {
	NeedsReencode      bool   `json:"needs_reencode"`
	Codec              string `json:"codec"`
	Preset             string `json:"preset,omitempty"`
	TargetBitrate      string `json:"target_bitrate,omitempty"`
	MaxBitrate         string `json:"max_bitrate,omitempty"`
	BufferSize         string `json:"buffer_size,omitempty"`
	MaxWidth           int    `json:"max_width"`
	MaxHeight          int    `json:"max_height"`
	Width              int    `json:"width,omitempty"`  // 0 when the source size is unknown
	Height             int    `json:"height,omitempty"` // 0 when the source size is unknown
	MuteAudio          bool   `json:"mute_audio"`
	StreamingOptimised bool   `json:"enable_streaming_optimization"`
	Profile            string `json:"profile"`
	Reason             string `json:"reason"`
}

// ShouldSkipReencode reports whether the source is already good enough to be
// copied as is. Unavailable or incomplete probe data never skips.
func ShouldSkipReencode(p Profile, probe ProbeResult) (bool, string) {
	if !p.SkipIfOptimal {
		return false, "profile disables skipping"
	}
	src, ok := probe.Properties()
	if !ok {
		return false, "probe unavailable"
	}
	if !src.complete() {
		return false, "probe data incomplete"
	}
	if src.Codec != TargetCodec {
		return false, fmt.Sprintf("codec %s is not %s", src.Codec, TargetCodec)
	}
	if src.Width > p.MaxWidth || src.Height > p.MaxHeight {
		return false, fmt.Sprintf("resolution %dx%d exceeds %dx%d", src.Width, src.Height, p.MaxWidth, p.MaxHeight)
	}
	if src.Bitrate > p.OptimalBitrate {
		return false, fmt.Sprintf("bitrate %d exceeds %d", src.Bitrate, p.OptimalBitrate)
	}
	return true, "already optimal"
}

// Decide computes the transform plan for a video from the profile (with any
// overrides already applied) and the probe outcome.
func Decide(p Profile, probe ProbeResult) Decision {
	skip, reason := ShouldSkipReencode(p, probe)
	d := Decision{
		NeedsReencode:      !skip,
		MaxWidth:           p.MaxWidth,
		MaxHeight:          p.MaxHeight,
		StreamingOptimised: true,
		Profile:            p.Name,
		Reason:             reason,
	}
	if skip {
		d.Codec = CopyCodec
		return d
	}

	d.Codec = TargetEncoder
	d.Preset = p.Preset
	d.TargetBitrate = p.TargetBitrate
	d.MaxBitrate = p.MaxBitrate
	d.BufferSize = p.BufferSize
	d.MuteAudio = p.RemoveAudio
	if src, ok := probe.Properties(); ok && src.Width > 0 && src.Height > 0 {
		d.Width, d.Height = ScaleDimensions(src.Width, src.Height, p.MaxWidth, p.MaxHeight)
	}
	return d
}

// ScaleFilter returns the ffmpeg video filter for a re-encode. When the source
// size is known the exact target is used, otherwise ffmpeg computes the same
// bounded, even-sized result itself.
func (d Decision) ScaleFilter() string {
	if !d.NeedsReencode {
		return ""
	}
	if d.Width > 0 && d.Height > 0 {
		return fmt.Sprintf("scale=%d:%d", d.Width, d.Height)
	}
	return fmt.Sprintf(
		"scale='min(iw,%d)':'min(ih,%d)':force_original_aspect_ratio=decrease,scale=trunc(iw/2)*2:trunc(ih/2)*2",
		d.MaxWidth, d.MaxHeight,
	)
}

// ScaleDimensions fits w×h inside maxW×maxH without upscaling, keeping the
// aspect ratio, and rounds both sides down to even values.
func ScaleDimensions(w, h, maxW, maxH int) (int, int) {
	nw, nh := FitWithin(w, h, maxW, maxH)
	return even(nw), even(nh)
}

// FitWithin shrinks w×h to fit maxW×maxH preserving the aspect ratio. Sizes
// already inside the box are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	// compare w/h against maxW/maxH without floats
	if int64(w)*int64(maxH) >= int64(h)*int64(maxW) {
		nh := int(int64(h) * int64(maxW) / int64(w))
		return maxW, max(nh, 1)
	}
	nw := int(int64(w) * int64(maxH) / int64(h))
	return max(nw, 1), maxH
}

func even(n int) int {
	if n < 2 {
		return 2
	}
	return n &^ 1
}
