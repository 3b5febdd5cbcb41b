package veo

// MediaRef points at a stored media object used as a generation input.
type MediaRef struct {
	URI      string
	MimeType string
}

// Source is the tagged variant describing where a generation starts from.
// Exactly one concrete source backs a request; each variant carries only the
// fields relevant to its mode.
type Source interface {
	Mode() Mode
	// ReferenceURIs lists the input media locators, for audit snapshots.
	ReferenceURIs() []string
}

// TextToVideo generates from the prompt alone.
type TextToVideo struct{}

func (TextToVideo) Mode() Mode              { return ModeTextToVideo }
func (TextToVideo) ReferenceURIs() []string { return nil }

// ImageToVideo animates a single start frame.
type ImageToVideo struct {
	Image MediaRef
}

func (s ImageToVideo) Mode() Mode              { return ModeImageToVideo }
func (s ImageToVideo) ReferenceURIs() []string { return []string{s.Image.URI} }

// Interpolation generates between a first and a last frame.
type Interpolation struct {
	First MediaRef
	Last  MediaRef
}

func (s Interpolation) Mode() Mode              { return ModeInterpolation }
func (s Interpolation) ReferenceURIs() []string { return []string{s.First.URI, s.Last.URI} }

// ReferenceToVideo is driven by a small set of asset references, optionally
// with a style reference.
type ReferenceToVideo struct {
	Assets []MediaRef
	Style  *MediaRef
}

func (s ReferenceToVideo) Mode() Mode { return ModeReferenceToVideo }

func (s ReferenceToVideo) ReferenceURIs() []string {
	uris := make([]string, 0, len(s.Assets)+1)
	for _, a := range s.Assets {
		uris = append(uris, a.URI)
	}
	if s.Style != nil {
		uris = append(uris, s.Style.URI)
	}
	return uris
}

// Extension continues an existing source video.
type Extension struct {
	Video MediaRef
}

func (s Extension) Mode() Mode              { return ModeExtension }
func (s Extension) ReferenceURIs() []string { return []string{s.Video.URI} }

// GenerationRequest is the validated value object describing one generation.
type GenerationRequest struct {
	Prompt           string
	NegativePrompt   string
	DurationSeconds  int
	VideoCount       int
	AspectRatio      string
	Resolution       string
	EnhancePrompt    bool
	GenerateAudio    bool
	ModelVersionID   string
	PersonGeneration string

	Source Source
}

// SourceInputs carries the flat optional reference fields as they arrive on
// the wire, before they are resolved into a tagged Source.
type SourceInputs struct {
	ReferenceImage     *MediaRef
	LastReferenceImage *MediaRef
	R2VReferences      []MediaRef
	R2VStyleImage      *MediaRef
	VideoInput         *MediaRef
}

// DeriveSource resolves the populated reference fields into a single Source.
// When more than one group is populated the precedence order is
// extension > r2v > interpolation > i2v > t2v, mirroring the order the
// source fields are checked when building the provider request. A last frame
// without a first frame is the one combination that cannot be resolved.
func DeriveSource(in SourceInputs) (Source, error) {
	if in.VideoInput != nil {
		return Extension{Video: *in.VideoInput}, nil
	}
	if len(in.R2VReferences) > 0 || in.R2VStyleImage != nil {
		return ReferenceToVideo{Assets: in.R2VReferences, Style: in.R2VStyleImage}, nil
	}
	if in.ReferenceImage != nil && in.LastReferenceImage != nil {
		return Interpolation{First: *in.ReferenceImage, Last: *in.LastReferenceImage}, nil
	}
	if in.LastReferenceImage != nil {
		return nil, newError(KindInvalidRequest, "last reference image provided without a first frame")
	}
	if in.ReferenceImage != nil {
		return ImageToVideo{Image: *in.ReferenceImage}, nil
	}
	return TextToVideo{}, nil
}

// Validate checks the request invariants that hold independent of any model
// capability: positive duration and count, a resolved source, and a prompt
// for the prompt-driven modes.
func (r *GenerationRequest) Validate() error {
	if r.Source == nil {
		return newError(KindInvalidRequest, "generation source not resolved")
	}
	if r.DurationSeconds <= 0 {
		return newError(KindInvalidRequest, "duration must be positive, got %d", r.DurationSeconds)
	}
	if r.VideoCount <= 0 {
		return newError(KindInvalidRequest, "video count must be positive, got %d", r.VideoCount)
	}
	if r.ModelVersionID == "" {
		return newError(KindInvalidRequest, "model version is required")
	}
	if r.Prompt == "" && r.Source.Mode() == ModeTextToVideo {
		return newError(KindInvalidRequest, "text-to-video requires a prompt")
	}
	return nil
}

// personGenerationMap translates the UI-facing person generation labels to
// the API values. Unknown labels fall back to adults-only.
var personGenerationMap = map[string]string{
	"Allow (All ages)":    "allow_all",
	"Allow (Adults only)": "allow_adult",
	"Don't Allow":         "dont_allow",
}

func personGenerationValue(label string) string {
	if v, ok := personGenerationMap[label]; ok {
		return v
	}
	return "allow_adult"
}
