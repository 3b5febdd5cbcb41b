// Package server provides the HTTP server for the studio API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "time"

// MediaRefDTO names a stored media object used as a generation input.
type MediaRefDTO struct {
	// GCSURI is the storage locator of the object.
	GCSURI string `json:"gcs_uri" validate:"required"`
	// MimeType is the media type of the object (e.g. "image/png").
	MimeType string `json:"mime_type"`
}

// GenerateRequest is the HTTP request body for starting a video generation.
// The reference fields are all optional; which ones are set decides the
// generation mode.
type GenerateRequest struct {
	// Prompt is the text prompt driving the generation.
	Prompt string `json:"prompt"`
	// NegativePrompt describes what the video should avoid.
	NegativePrompt string `json:"negative_prompt"`
	// ModelVersionID selects the model (e.g. "3.1").
	ModelVersionID string `json:"model_version_id" validate:"required"`
	// DurationSeconds is the requested clip length.
	DurationSeconds int `json:"duration_seconds" validate:"required,min=1,max=60"`
	// VideoCount is how many videos to sample.
	VideoCount int `json:"video_count" validate:"required,min=1,max=4"`
	// AspectRatio is the output aspect ratio (e.g. "16:9").
	AspectRatio string `json:"aspect_ratio"`
	// Resolution is the output resolution (e.g. "1080p").
	Resolution string `json:"resolution"`
	// EnhancePrompt asks the model to rewrite the prompt before generating.
	EnhancePrompt bool `json:"enhance_prompt"`
	// GenerateAudio asks for an audio track on models that support it.
	GenerateAudio bool `json:"generate_audio"`
	// PersonGeneration is the person generation policy label.
	PersonGeneration string `json:"person_generation"`

	// ReferenceImageGCS is the start frame for image-to-video.
	ReferenceImageGCS      string `json:"reference_image_gcs"`
	ReferenceImageMimeType string `json:"reference_image_mime_type"`
	// LastReferenceImageGCS is the end frame; with a start frame it selects
	// interpolation.
	LastReferenceImageGCS      string `json:"last_reference_image_gcs"`
	LastReferenceImageMimeType string `json:"last_reference_image_mime_type"`
	// R2VReferenceImages are the asset references for reference-to-video.
	R2VReferenceImages []MediaRefDTO `json:"r2v_reference_images" validate:"omitempty,max=3,dive"`
	// R2VStyleImage is the optional style reference for reference-to-video.
	R2VStyleImage *MediaRefDTO `json:"r2v_style_image"`
	// VideoInputGCS is the source video for extension.
	VideoInputGCS      string `json:"video_input_gcs"`
	VideoInputMimeType string `json:"video_input_mime_type"`
}

// GenerateResponse is the HTTP response after a generation job is accepted.
type GenerateResponse struct {
	// JobID is the identifier to poll for status.
	JobID string `json:"job_id"`
	// Status is the initial job status.
	Status string `json:"status"`
}

// JobStatusResponse is the HTTP response for polling a job.
type JobStatusResponse struct {
	// JobID is the identifier of the job.
	JobID string `json:"job_id"`
	// Status is the current job status.
	Status string `json:"status"`
	// VideoURI is the first produced video, when complete.
	VideoURI string `json:"video_uri,omitempty"`
	// VideoURIs lists all produced videos, when complete.
	VideoURIs []string `json:"video_uris,omitempty"`
	// Resolution is the resolution of the produced videos.
	Resolution string `json:"resolution,omitempty"`
	// Error contains the failure message if the job failed.
	Error string `json:"error_message,omitempty"`
}

// LibraryItem is one media library entry.
type LibraryItem struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	UserEmail      string    `json:"user_email,omitempty"`
	MimeType       string    `json:"mime_type,omitempty"`
	Prompt         string    `json:"prompt,omitempty"`
	Mode           string    `json:"mode,omitempty"`
	Model          string    `json:"model,omitempty"`
	VideoURIs      []string  `json:"video_uris,omitempty"`
	Resolution     string    `json:"resolution,omitempty"`
	GenerationTime float64   `json:"generation_time,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// LibraryResponse is one page of the media library.
type LibraryResponse struct {
	// Items are the entries of this page, newest first.
	Items []LibraryItem `json:"items"`
	// NextCursor pages forward when non-empty.
	NextCursor string `json:"next_cursor,omitempty"`
	// Total is the collection-wide item count, or -1 if unavailable.
	Total int64 `json:"total"`
}

// UploadResponse is the HTTP response after a media upload.
type UploadResponse struct {
	// Locator is the storage locator of the uploaded object.
	Locator string `json:"locator"`
}

// ModelInfo describes one selectable model version.
type ModelInfo struct {
	VersionID          string   `json:"version_id"`
	Name               string   `json:"name"`
	MaxSamples         int      `json:"max_samples"`
	SupportedModes     []string `json:"supported_modes"`
	SupportsAudio      bool     `json:"supports_audio"`
	DefaultAspectRatio string   `json:"default_aspect_ratio"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
