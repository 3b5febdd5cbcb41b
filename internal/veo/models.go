package veo

import "strings"

// Mode identifies which generation variant a request represents.
type Mode string

const (
	// ModeTextToVideo generates from a prompt alone.
	ModeTextToVideo Mode = "t2v"
	// ModeImageToVideo animates a single start frame.
	ModeImageToVideo Mode = "i2v"
	// ModeInterpolation generates between a first and last frame.
	ModeInterpolation Mode = "interpolation"
	// ModeReferenceToVideo is driven by asset/style reference images.
	ModeReferenceToVideo Mode = "r2v"
	// ModeExtension extends an existing source video.
	ModeExtension Mode = "extension"
)

// ModeOverride narrows a model's capabilities for a specific mode.
type ModeOverride struct {
	SupportedDurations     []int
	DefaultDuration        int
	SupportsStyleReference bool
	SupportedAspectRatios  []string
}

// ModelConfig is the capability matrix for one Veo model version.
type ModelConfig struct {
	VersionID   string
	ModelName   string
	DisplayName string

	SupportedModes        []Mode
	SupportedAspectRatios []string
	Resolutions           []string

	MinDuration        int
	MaxDuration        int
	DefaultDuration    int
	SupportedDurations []int // discontinuous duration sets; empty means min..max

	MaxSamples     int
	DefaultSamples int

	SupportsPromptEnhancement bool
	DefaultPromptEnhancement  bool
	RequiresPromptEnhancement bool

	SupportsVideoExtension      bool
	SupportedExtensionDurations []int

	ModeOverrides map[Mode]ModeOverride
}

// SupportsMode reports whether the model can serve the given mode.
func (m *ModelConfig) SupportsMode(mode Mode) bool {
	if mode == ModeExtension {
		return m.SupportsVideoExtension
	}
	for _, s := range m.SupportedModes {
		if s == mode {
			return true
		}
	}
	return false
}

// models is the single source of truth for Veo model capabilities.
var models = []ModelConfig{
	{
		VersionID:                 "2.0",
		ModelName:                 "veo-2.0-generate-001",
		DisplayName:               "Veo 2.0",
		SupportedModes:            []Mode{ModeTextToVideo, ModeImageToVideo, ModeInterpolation},
		SupportedAspectRatios:     []string{"16:9", "9:16"},
		Resolutions:               []string{"720p"},
		MinDuration:               5,
		MaxDuration:               8,
		DefaultDuration:           5,
		MaxSamples:                4,
		DefaultSamples:            1,
		SupportsPromptEnhancement: true,
		DefaultPromptEnhancement:  true,
	},
	{
		VersionID:                 "2.0-exp",
		ModelName:                 "veo-2.0-generate-exp",
		DisplayName:               "Veo 2.0 Exp",
		SupportedModes:            []Mode{ModeTextToVideo, ModeImageToVideo, ModeInterpolation, ModeReferenceToVideo},
		SupportedAspectRatios:     []string{"16:9", "9:16"},
		Resolutions:               []string{"720p"},
		MinDuration:               5,
		MaxDuration:               8,
		DefaultDuration:           5,
		MaxSamples:                4,
		DefaultSamples:            1,
		SupportsPromptEnhancement: false,
		DefaultPromptEnhancement:  false,
		ModeOverrides: map[Mode]ModeOverride{
			ModeReferenceToVideo: {SupportedDurations: []int{8}, DefaultDuration: 8, SupportsStyleReference: true},
		},
	},
	{
		VersionID:                 "3.0",
		ModelName:                 "veo-3.0-generate-001",
		DisplayName:               "Veo 3.0",
		SupportedModes:            []Mode{ModeTextToVideo, ModeImageToVideo},
		SupportedAspectRatios:     []string{"16:9", "9:16"},
		Resolutions:               []string{"720p", "1080p"},
		MinDuration:               4,
		MaxDuration:               8,
		DefaultDuration:           8,
		SupportedDurations:        []int{4, 6, 8},
		MaxSamples:                4,
		DefaultSamples:            1,
		SupportsPromptEnhancement: true,
		DefaultPromptEnhancement:  true,
		RequiresPromptEnhancement: true,
	},
	{
		VersionID:                 "3.0-fast",
		ModelName:                 "veo-3.0-fast-generate-001",
		DisplayName:               "Veo 3.0 Fast",
		SupportedModes:            []Mode{ModeTextToVideo, ModeImageToVideo},
		SupportedAspectRatios:     []string{"16:9", "9:16"},
		Resolutions:               []string{"720p", "1080p"},
		MinDuration:               4,
		MaxDuration:               8,
		DefaultDuration:           8,
		SupportedDurations:        []int{4, 6, 8},
		MaxSamples:                4,
		DefaultSamples:            1,
		SupportsPromptEnhancement: true,
		DefaultPromptEnhancement:  true,
		RequiresPromptEnhancement: true,
	},
	{
		VersionID:                   "3.1",
		ModelName:                   "veo-3.1-generate-preview",
		DisplayName:                 "Veo 3.1",
		SupportedModes:              []Mode{ModeTextToVideo, ModeImageToVideo, ModeInterpolation, ModeReferenceToVideo},
		SupportedAspectRatios:       []string{"16:9", "9:16"},
		Resolutions:                 []string{"720p", "1080p"},
		MinDuration:                 4,
		MaxDuration:                 8,
		DefaultDuration:             8,
		SupportedDurations:          []int{4, 6, 8},
		MaxSamples:                  4,
		DefaultSamples:              1,
		SupportsPromptEnhancement:   true,
		DefaultPromptEnhancement:    true,
		SupportsVideoExtension:      true,
		SupportedExtensionDurations: []int{4, 5, 6, 7},
		ModeOverrides: map[Mode]ModeOverride{
			ModeReferenceToVideo: {
				SupportedDurations:     []int{8},
				DefaultDuration:        8,
				SupportsStyleReference: false,
				SupportedAspectRatios:  []string{"16:9"},
			},
		},
	},
	{
		VersionID:                   "3.1-fast",
		ModelName:                   "veo-3.1-fast-generate-preview",
		DisplayName:                 "Veo 3.1 Fast",
		SupportedModes:              []Mode{ModeTextToVideo, ModeImageToVideo, ModeInterpolation},
		SupportedAspectRatios:       []string{"16:9", "9:16"},
		Resolutions:                 []string{"720p", "1080p"},
		MinDuration:                 4,
		MaxDuration:                 8,
		DefaultDuration:             8,
		SupportedDurations:          []int{4, 6, 8},
		MaxSamples:                  4,
		DefaultSamples:              1,
		SupportsPromptEnhancement:   true,
		DefaultPromptEnhancement:    true,
		SupportsVideoExtension:      true,
		SupportedExtensionDurations: []int{4, 5, 6, 7},
	},
}

// ModelSupportsAudio reports whether a model version can generate an audio
// track. Only the Veo 3 family knows the flag.
func ModelSupportsAudio(versionID string) bool {
	return strings.HasPrefix(versionID, "3.")
}

// LookupModel returns the capability config for a model version ID, or nil
// if the version is unknown.
func LookupModel(versionID string) *ModelConfig {
	for i := range models {
		if models[i].VersionID == versionID {
			return &models[i]
		}
	}
	return nil
}

// Models returns the full capability table, for display surfaces.
func Models() []ModelConfig {
	out := make([]ModelConfig, len(models))
	copy(out, models)
	return out
}
