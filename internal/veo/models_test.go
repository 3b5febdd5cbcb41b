package veo

import "testing"

func TestLookupModel(t *testing.T) {
	tests := []struct {
		versionID string
		wantName  string
		found     bool
	}{
		{"2.0", "veo-2.0-generate-001", true},
		{"2.0-exp", "veo-2.0-generate-exp", true},
		{"3.0", "veo-3.0-generate-001", true},
		{"3.0-fast", "veo-3.0-fast-generate-001", true},
		{"3.1", "veo-3.1-generate-preview", true},
		{"3.1-fast", "veo-3.1-fast-generate-preview", true},
		{"9.9", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.versionID, func(t *testing.T) {
			cfg := LookupModel(tt.versionID)
			if !tt.found {
				if cfg != nil {
					t.Errorf("expected nil for version %q, got %s", tt.versionID, cfg.ModelName)
				}
				return
			}
			if cfg == nil {
				t.Fatalf("expected config for version %q", tt.versionID)
			}
			if cfg.ModelName != tt.wantName {
				t.Errorf("expected model name %s, got %s", tt.wantName, cfg.ModelName)
			}
		})
	}
}

func TestModelConfig_SupportsMode(t *testing.T) {
	tests := []struct {
		versionID string
		mode      Mode
		want      bool
	}{
		{"2.0", ModeTextToVideo, true},
		{"2.0", ModeInterpolation, true},
		{"2.0", ModeReferenceToVideo, false},
		{"2.0", ModeExtension, false},
		{"2.0-exp", ModeReferenceToVideo, true},
		{"3.0", ModeImageToVideo, true},
		{"3.0", ModeInterpolation, false},
		{"3.0", ModeExtension, false},
		{"3.1", ModeReferenceToVideo, true},
		{"3.1", ModeExtension, true},
		{"3.1-fast", ModeExtension, true},
		{"3.1-fast", ModeReferenceToVideo, false},
	}

	for _, tt := range tests {
		t.Run(tt.versionID+"/"+string(tt.mode), func(t *testing.T) {
			cfg := LookupModel(tt.versionID)
			if cfg == nil {
				t.Fatalf("unknown version %q", tt.versionID)
			}
			if got := cfg.SupportsMode(tt.mode); got != tt.want {
				t.Errorf("SupportsMode(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestModelSupportsAudio(t *testing.T) {
	tests := []struct {
		versionID string
		want      bool
	}{
		{"2.0", false},
		{"2.0-exp", false},
		{"3.0", true},
		{"3.0-fast", true},
		{"3.1", true},
		{"3.1-fast", true},
	}

	for _, tt := range tests {
		if got := ModelSupportsAudio(tt.versionID); got != tt.want {
			t.Errorf("ModelSupportsAudio(%q) = %v, want %v", tt.versionID, got, tt.want)
		}
	}
}

func TestModels_ReturnsCopy(t *testing.T) {
	all := Models()
	if len(all) == 0 {
		t.Fatal("expected at least one model")
	}

	original := all[0].VersionID
	all[0].VersionID = "mutated"

	if Models()[0].VersionID != original {
		t.Error("mutating the returned slice should not affect the registry")
	}
}

func TestModelConfig_ExtensionDurations(t *testing.T) {
	for _, versionID := range []string{"3.1", "3.1-fast"} {
		cfg := LookupModel(versionID)
		if cfg == nil {
			t.Fatalf("unknown version %q", versionID)
		}
		if !cfg.SupportsVideoExtension {
			t.Errorf("expected %s to support extension", versionID)
		}
		want := []int{4, 5, 6, 7}
		if len(cfg.SupportedExtensionDurations) != len(want) {
			t.Fatalf("expected %d extension durations, got %d", len(want), len(cfg.SupportedExtensionDurations))
		}
		for i, d := range want {
			if cfg.SupportedExtensionDurations[i] != d {
				t.Errorf("extension duration %d: expected %d, got %d", i, d, cfg.SupportedExtensionDurations[i])
			}
		}
	}
}
