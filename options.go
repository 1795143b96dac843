package backdrop

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Style identifies one of the generative background scenes.
type Style string

const (
	StyleEmbers   Style = "embers"
	StyleMatrix   Style = "matrix"
	StyleTerrain  Style = "terrain"
	StyleNightSky Style = "night-sky"
	StyleNone     Style = "none"
)

// ParseStyle maps a style name to a Style. Unknown names fail closed to
// StyleNone; a background that silently stays off beats one that crashes
// the host over a typo in a settings file.
func ParseStyle(s string) Style {
	switch Style(s) {
	case StyleEmbers, StyleMatrix, StyleTerrain, StyleNightSky, StyleNone:
		return Style(s)
	default:
		return StyleNone
	}
}

// Options is the full configuration surface of the engine. All fields are
// optional; the zero value is valid and renders the default style.
// Out-of-range values are clamped, never rejected.
type Options struct {
	// Disabled forces the engine idle regardless of Style.
	Disabled bool `toml:"disabled"`
	// Style selects the active scene.
	Style Style `toml:"style"`
	// SmokeIntensity scales the ember scene's smoke particle count, 0-10.
	// 0 spawns none; 10 spawns around 80.
	SmokeIntensity int `toml:"smoke_intensity"`
	// BlobCount scales the ember scene's glowing blob count, 0-10.
	// 0 spawns none; 10 spawns around 40.
	BlobCount int `toml:"blob_count"`
}

// DefaultOptions returns the configuration used when the host supplies none.
func DefaultOptions() Options {
	return Options{
		Style:          StyleEmbers,
		SmokeIntensity: 5,
		BlobCount:      5,
	}
}

// normalized returns a copy with all fields clamped into their valid ranges
// and the style name validated.
func (o Options) normalized() Options {
	o.Style = ParseStyle(string(o.Style))
	o.SmokeIntensity = clampInt(o.SmokeIntensity, 0, 10)
	o.BlobCount = clampInt(o.BlobCount, 0, 10)
	return o
}

// DecodeOptions parses TOML-encoded options, as persisted by the host's
// settings file. Missing fields fall back to DefaultOptions values and
// out-of-range values are clamped.
func DecodeOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := toml.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("parse options: %w", err)
	}
	return opts.normalized(), nil
}

// EncodeOptions serializes options to TOML for the host's settings file.
func EncodeOptions(opts Options) ([]byte, error) {
	data, err := toml.Marshal(opts.normalized())
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return data, nil
}
