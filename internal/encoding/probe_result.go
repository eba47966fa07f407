package encoding

// SourceProperties are the measured properties of a source video.
type SourceProperties struct {
	Codec   string
	Width   int
	Height  int
	Bitrate int64 // bits per second
}

func (s SourceProperties) complete() bool {
	return s.Codec != "" && s.Width > 0 && s.Height > 0 && s.Bitrate > 0
}

// ProbeResult is either the probed properties of a source or the marker that
// probing did not produce anything usable.
type ProbeResult struct {
	props SourceProperties
	ok    bool
}

func Probed(props SourceProperties) ProbeResult {
	return ProbeResult{props: props, ok: true}
}

func Unavailable() ProbeResult {
	return ProbeResult{}
}

// Properties returns the probed properties; ok is false when unavailable.
func (r ProbeResult) Properties() (SourceProperties, bool) {
	return r.props, r.ok
}
