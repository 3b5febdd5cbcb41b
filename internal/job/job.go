// Package job tracks asynchronous video generation jobs: the Job record,
// its forward-only status machine, the persistence port, and the controller
// that drives a job from creation to its terminal state.
package job

import (
	"errors"
	"time"

	"github.com/genmedia/studio-api/internal/veo"
)

// Status represents the current state of a Job.
type Status string

const (
	// StatusPending indicates the job record exists but no worker has
	// started it yet.
	StatusPending Status = "pending"
	// StatusProcessing indicates the background worker is driving the
	// provider operation.
	StatusProcessing Status = "processing"
	// StatusComplete indicates generation finished and results are recorded.
	StatusComplete Status = "complete"
	// StatusFailed indicates generation failed; the error message is recorded.
	StatusFailed Status = "failed"
)

// ErrInvalidTransition is returned when a status change would move a job
// backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("job: invalid status transition")

// validTransitions defines which status transitions are allowed. Transitions
// are forward-only; terminal states are absorbing.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusComplete, StatusFailed},
	StatusComplete:   {},
	StatusFailed:     {},
}

// CanTransition reports whether the machine allows moving to the given state.
func (s Status) CanTransition(to Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is complete or failed.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// RequestSnapshot is the audit copy of the generation request, written once
// at creation and never mutated.
type RequestSnapshot struct {
	Prompt          string   `firestore:"prompt"`
	NegativePrompt  string   `firestore:"negative_prompt,omitempty"`
	Mode            string   `firestore:"mode"`
	Model           string   `firestore:"model"`
	ModelVersionID  string   `firestore:"model_version_id"`
	DurationSeconds int      `firestore:"duration_seconds"`
	AspectRatio     string   `firestore:"aspect_ratio"`
	Resolution      string   `firestore:"resolution,omitempty"`
	VideoCount      int      `firestore:"video_count"`
	EnhancedPrompt  bool     `firestore:"enhanced_prompt_used"`
	ReferenceURIs   []string `firestore:"reference_uris,omitempty"`
}

// Result holds the outputs of a completed job. The duration is the one
// actually achieved, which for extension jobs is measured from the produced
// artifact rather than taken from the provider.
type Result struct {
	VideoURIs       []string `firestore:"gcs_uris"`
	VideoURI        string   `firestore:"gcsuri"`
	Resolution      string   `firestore:"resolution"`
	DurationSeconds float64  `firestore:"duration_seconds"`
}

// Job is one tracked asynchronous video generation request plus its
// lifecycle state. The record is mutated only by the single worker assigned
// to it; readers observe it through the store.
type Job struct {
	ID             string          `firestore:"-"`
	Status         Status          `firestore:"status"`
	UserEmail      string          `firestore:"user_email"`
	MimeType       string          `firestore:"mime_type"`
	Request        RequestSnapshot `firestore:"request"`
	Result         *Result         `firestore:"result,omitempty"`
	ErrorMessage   string          `firestore:"error_message,omitempty"`
	CreatedAt      time.Time       `firestore:"timestamp"`
	UpdatedAt      time.Time       `firestore:"updated_at"`
	GenerationTime float64         `firestore:"generation_time,omitempty"`
}

// NewJob builds a pending job for a validated request. The ID is left empty;
// the store assigns it at insert.
func NewJob(req *veo.GenerationRequest, userEmail string) *Job {
	modelName := req.ModelVersionID
	if cfg := veo.LookupModel(req.ModelVersionID); cfg != nil {
		modelName = cfg.ModelName
	}

	now := time.Now().UTC()
	return &Job{
		Status:    StatusPending,
		UserEmail: userEmail,
		MimeType:  "video/mp4",
		Request: RequestSnapshot{
			Prompt:          req.Prompt,
			NegativePrompt:  req.NegativePrompt,
			Mode:            string(req.Source.Mode()),
			Model:           modelName,
			ModelVersionID:  req.ModelVersionID,
			DurationSeconds: req.DurationSeconds,
			AspectRatio:     req.AspectRatio,
			Resolution:      req.Resolution,
			VideoCount:      req.VideoCount,
			EnhancedPrompt:  req.EnhancePrompt,
			ReferenceURIs:   req.Source.ReferenceURIs(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
