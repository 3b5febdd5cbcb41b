package job

import (
	"testing"

	"github.com/genmedia/studio-api/internal/veo"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"processing to complete", StatusProcessing, StatusComplete, true},
		{"processing to failed", StatusProcessing, StatusFailed, true},
		{"pending to complete", StatusPending, StatusComplete, false},
		{"pending to failed", StatusPending, StatusFailed, false},
		{"processing to pending", StatusProcessing, StatusPending, false},
		{"complete to processing", StatusComplete, StatusProcessing, false},
		{"complete to failed", StatusComplete, StatusFailed, false},
		{"failed to processing", StatusFailed, StatusProcessing, false},
		{"failed to complete", StatusFailed, StatusComplete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusProcessing, false},
		{StatusComplete, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestNewJob(t *testing.T) {
	req := &veo.GenerationRequest{
		Prompt:          "a dog surfing",
		NegativePrompt:  "blurry",
		DurationSeconds: 6,
		VideoCount:      2,
		AspectRatio:     "16:9",
		Resolution:      "720p",
		EnhancePrompt:   true,
		ModelVersionID:  "3.1",
		Source: veo.ImageToVideo{
			Image: veo.MediaRef{URI: "gs://bucket/start.png", MimeType: "image/png"},
		},
	}

	j := NewJob(req, "user@example.com")

	if j.ID != "" {
		t.Error("expected ID to be empty until the store assigns one")
	}
	if j.Status != StatusPending {
		t.Errorf("expected status %s, got %s", StatusPending, j.Status)
	}
	if j.UserEmail != "user@example.com" {
		t.Errorf("expected user email to be recorded, got %q", j.UserEmail)
	}
	if j.MimeType != "video/mp4" {
		t.Errorf("expected mime type video/mp4, got %s", j.MimeType)
	}
	if j.CreatedAt.IsZero() || j.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	if j.Request.Mode != string(veo.ModeImageToVideo) {
		t.Errorf("expected mode %s, got %s", veo.ModeImageToVideo, j.Request.Mode)
	}
	if j.Request.Model != "veo-3.1-generate-preview" {
		t.Errorf("expected resolved model name, got %s", j.Request.Model)
	}
	if j.Request.ModelVersionID != "3.1" {
		t.Errorf("expected version ID 3.1, got %s", j.Request.ModelVersionID)
	}
	if len(j.Request.ReferenceURIs) != 1 || j.Request.ReferenceURIs[0] != "gs://bucket/start.png" {
		t.Errorf("expected the input locator in the snapshot, got %v", j.Request.ReferenceURIs)
	}
	if !j.Request.EnhancedPrompt {
		t.Error("expected enhanced prompt flag recorded")
	}
}

func TestNewJob_UnknownModelKeepsVersionID(t *testing.T) {
	req := &veo.GenerationRequest{
		Prompt:          "test",
		DurationSeconds: 5,
		VideoCount:      1,
		ModelVersionID:  "9.9",
		Source:          veo.TextToVideo{},
	}

	j := NewJob(req, "user@example.com")
	if j.Request.Model != "9.9" {
		t.Errorf("expected the raw version ID when the model is unknown, got %s", j.Request.Model)
	}
}
