package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/genmedia/studio-api/internal/veo"
)

// DurationProber measures the real duration of a produced video artifact.
// Used for extension jobs, where the provider reports only the added
// duration rather than the total.
type DurationProber interface {
	ProbeDuration(ctx context.Context, locator string) (float64, error)
}

// StatusView is the read model returned to polling clients.
type StatusView struct {
	JobID        string
	Status       Status
	VideoURI     string
	VideoURIs    []string
	Resolution   string
	ErrorMessage string
}

// Controller orchestrates the job lifecycle: it creates the pending record,
// drives the blocking provider call from a background worker, and persists
// each status transition. All collaborators are injected at construction.
type Controller struct {
	store  Store
	gen    veo.Generator
	prober DurationProber
	logger *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithDurationProber sets the prober used to correct extension durations.
// Without one, extension jobs keep the provider-reported duration.
func WithDurationProber(p DurationProber) ControllerOption {
	return func(c *Controller) {
		c.prober = p
	}
}

// NewController creates a job controller.
func NewController(store Store, gen veo.Generator, logger *slog.Logger, opts ...ControllerOption) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		store:  store,
		gen:    gen,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create validates the request, derives its mode, and inserts the pending
// tracking record. It returns the assigned job ID immediately and never
// calls the generation provider.
func (c *Controller) Create(ctx context.Context, req *veo.GenerationRequest, userEmail string) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	j := NewJob(req, userEmail)
	id, err := c.store.Insert(ctx, j)
	if err != nil {
		return "", err
	}

	c.logger.Info("job created",
		slog.String("job_id", id),
		slog.String("mode", j.Request.Mode),
		slog.String("model", j.Request.Model),
		slog.String("user", userEmail),
	)
	return id, nil
}

// Run executes the generation for an existing job. It blocks for the full
// provider round trip and never returns an error past its own boundary:
// every failure is caught, classified, and recorded on the job, so the
// scheduler can treat Run as infallible.
func (c *Controller) Run(ctx context.Context, jobID string, req *veo.GenerationRequest) {
	c.logger.Info("starting generation", slog.String("job_id", jobID))

	if err := c.transition(ctx, jobID, StatusProcessing, nil); err != nil {
		// The store is unreachable or the job is in an unexpected state;
		// nothing can be recorded on the job itself.
		c.logger.Error("could not mark job processing",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	result, err := c.gen.Generate(ctx, req)
	if err != nil {
		c.fail(ctx, jobID, err)
		return
	}

	if req.Source.Mode() == veo.ModeExtension {
		c.correctExtensionDuration(ctx, jobID, result)
	}

	c.complete(ctx, jobID, result)
}

// GetStatus reads the job and returns its status view. No side effects.
func (c *Controller) GetStatus(ctx context.Context, jobID string) (*StatusView, error) {
	j, err := c.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{
		JobID:  j.ID,
		Status: j.Status,
	}
	switch j.Status {
	case StatusComplete:
		if j.Result != nil {
			view.VideoURIs = j.Result.VideoURIs
			if len(j.Result.VideoURIs) > 0 {
				view.VideoURI = j.Result.VideoURIs[0]
			}
			view.Resolution = j.Result.Resolution
		}
	case StatusFailed:
		view.ErrorMessage = j.ErrorMessage
	}
	return view, nil
}

// correctExtensionDuration replaces the provider-reported duration with the
// measured total of the first output. The provider's duration parameter for
// an extension is the added length, not the length of the produced video.
func (c *Controller) correctExtensionDuration(ctx context.Context, jobID string, result *veo.Result) {
	if c.prober == nil || len(result.VideoURIs) == 0 {
		return
	}

	measured, err := c.prober.ProbeDuration(ctx, result.VideoURIs[0])
	if err != nil {
		c.logger.Warn("could not measure extended video duration; keeping provider value",
			slog.String("job_id", jobID),
			slog.String("uri", result.VideoURIs[0]),
			slog.String("error", err.Error()),
		)
		return
	}

	c.logger.Info("measured extended video duration",
		slog.String("job_id", jobID),
		slog.Float64("reported_seconds", result.DurationSeconds),
		slog.Float64("measured_seconds", measured),
	)
	result.DurationSeconds = measured
}

// complete records the terminal success state.
func (c *Controller) complete(ctx context.Context, jobID string, result *veo.Result) {
	res := &Result{
		VideoURIs:       result.VideoURIs,
		Resolution:      result.Resolution,
		DurationSeconds: result.DurationSeconds,
	}
	if len(result.VideoURIs) > 0 {
		res.VideoURI = result.VideoURIs[0]
	}

	if err := c.transition(ctx, jobID, StatusComplete, map[string]any{"result": res}); err != nil {
		c.logger.Error("could not mark job complete",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}
	c.logger.Info("job complete",
		slog.String("job_id", jobID),
		slog.Int("videos", len(result.VideoURIs)),
	)
}

// fail records the terminal failure state with a human-readable message.
func (c *Controller) fail(ctx context.Context, jobID string, cause error) {
	message := cause.Error()
	if ge, ok := veo.AsGenerationError(cause); ok {
		message = ge.Message
	}

	if err := c.transition(ctx, jobID, StatusFailed, map[string]any{"error_message": message}); err != nil {
		c.logger.Error("could not mark job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}
	c.logger.Info("job failed",
		slog.String("job_id", jobID),
		slog.String("reason", message),
	)
}

// transition validates the status change against the current record and
// persists it together with extra fields in a single merge update. Terminal
// transitions also record the generation time.
func (c *Controller) transition(ctx context.Context, jobID string, to Status, extra map[string]any) error {
	j, err := c.store.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if !j.Status.CanTransition(to) {
		return ErrInvalidTransition
	}

	now := time.Now().UTC()
	fields := map[string]any{
		"status":     to,
		"updated_at": now,
	}
	if to.IsTerminal() {
		fields["generation_time"] = now.Sub(j.CreatedAt).Seconds()
	}
	for k, v := range extra {
		fields[k] = v
	}

	return c.store.UpdateFields(ctx, jobID, fields)
}
