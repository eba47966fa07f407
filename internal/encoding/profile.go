package encoding

import "sort"

const DefaultProfile = "default"

// Profile bundles the encoder settings for one speed/quality trade-off.
type Profile struct {
	Name           string `json:"name"`
	Preset         string `json:"preset"`
	TargetBitrate  string `json:"target_bitrate"`
	MaxBitrate     string `json:"max_bitrate"`
	BufferSize     string `json:"buffer_size"`
	MaxWidth       int    `json:"max_width"`
	MaxHeight      int    `json:"max_height"`
	SkipIfOptimal  bool   `json:"skip_reencoding_if_optimal"`
	OptimalBitrate int64  `json:"optimal_bitrate_threshold"`
	RemoveAudio    bool   `json:"remove_audio"`
	FastStart      bool   `json:"enable_faststart"`
}

var defaultProfile = Profile{
	Name:           DefaultProfile,
	Preset:         "veryfast",
	TargetBitrate:  "800k",
	MaxBitrate:     "1200k",
	BufferSize:     "2400k",
	MaxWidth:       1280,
	MaxHeight:      720,
	SkipIfOptimal:  true,
	OptimalBitrate: 1_500_000,
	RemoveAudio:    true,
	FastStart:      true,
}

var profiles = map[string]Profile{
	DefaultProfile: defaultProfile,
	"high_quality": derive(defaultProfile, func(p *Profile) {
		p.Name = "high_quality"
		p.Preset = "slow"
		p.TargetBitrate = "1200k"
		p.MaxBitrate = "2000k"
		p.BufferSize = "4000k"
	}),
	"fast": derive(defaultProfile, func(p *Profile) {
		p.Name = "fast"
		p.Preset = "ultrafast"
		p.TargetBitrate = "600k"
		p.MaxBitrate = "900k"
		p.BufferSize = "1800k"
	}),
	"hd": derive(defaultProfile, func(p *Profile) {
		p.Name = "hd"
		p.Preset = "fast"
		p.TargetBitrate = "1500k"
		p.MaxBitrate = "2500k"
		p.BufferSize = "5000k"
		p.MaxWidth = 1920
		p.MaxHeight = 1080
	}),
}

func derive(base Profile, fn func(p *Profile)) Profile {
	fn(&base)
	return base
}

// LookupProfile returns the named profile, falling back to the default one.
func LookupProfile(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return defaultProfile
}

func IsKnownProfile(name string) bool {
	_, ok := profiles[name]
	return ok
}

func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Overrides replaces individual profile fields; nil fields keep the profile value.
type Overrides struct {
	Preset         *string `json:"preset,omitempty" validate:"omitempty,oneof=ultrafast superfast veryfast faster fast medium slow slower veryslow"`
	TargetBitrate  *string `json:"target_bitrate,omitempty" validate:"omitempty,bitrate"`
	MaxBitrate     *string `json:"max_bitrate,omitempty" validate:"omitempty,bitrate"`
	BufferSize     *string `json:"buffer_size,omitempty" validate:"omitempty,bitrate"`
	MaxWidth       *int    `json:"max_width,omitempty" validate:"omitempty,gt=0,lte=7680"`
	MaxHeight      *int    `json:"max_height,omitempty" validate:"omitempty,gt=0,lte=4320"`
	SkipIfOptimal  *bool   `json:"skip_reencoding_if_optimal,omitempty"`
	OptimalBitrate *int64  `json:"optimal_bitrate_threshold,omitempty" validate:"omitempty,gt=0"`
	RemoveAudio    *bool   `json:"remove_audio,omitempty"`
	FastStart      *bool   `json:"enable_faststart,omitempty"`
}

// Apply merges o on top of p field by field.
func (p Profile) Apply(o Overrides) Profile {
	if o.Preset != nil {
		p.Preset = *o.Preset
	}
	if o.TargetBitrate != nil {
		p.TargetBitrate = *o.TargetBitrate
	}
	if o.MaxBitrate != nil {
		p.MaxBitrate = *o.MaxBitrate
	}
	if o.BufferSize != nil {
		p.BufferSize = *o.BufferSize
	}
	if o.MaxWidth != nil {
		p.MaxWidth = *o.MaxWidth
	}
	if o.MaxHeight != nil {
		p.MaxHeight = *o.MaxHeight
	}
	if o.SkipIfOptimal != nil {
		p.SkipIfOptimal = *o.SkipIfOptimal
	}
	if o.OptimalBitrate != nil {
		p.OptimalBitrate = *o.OptimalBitrate
	}
	if o.RemoveAudio != nil {
		p.RemoveAudio = *o.RemoveAudio
	}
	if o.FastStart != nil {
		p.FastStart = *o.FastStart
	}
	return p
}
