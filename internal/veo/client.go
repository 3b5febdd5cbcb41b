package veo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Static errors for client construction.
var (
	// ErrProjectRequired is returned when the GCP project ID is not provided.
	ErrProjectRequired = errors.New("veo: project ID is required")
	// ErrOutputBucketRequired is returned when the output GCS bucket is not provided.
	ErrOutputBucketRequired = errors.New("veo: output bucket is required")
)

// Generator is the interface the job controller depends on. Implemented by
// Client; mocked in tests.
type Generator interface {
	// Generate submits the request and blocks until the provider's
	// long-running operation reaches a terminal state. Failures are returned
	// as *GenerationError so callers can classify them.
	Generate(ctx context.Context, req *GenerationRequest) (*Result, error)
}

// Client drives Veo generation through the Vertex AI REST surface: it
// submits a predictLongRunning call and polls fetchPredictOperation until
// the operation completes.
type Client struct {
	projectID    string
	location     string
	outputBucket string
	baseURL      string
	httpClient   *http.Client
	tokenSource  oauth2.TokenSource
	pollInterval time.Duration
	maxPolls     int
	maxRetries   int
	baseBackoff  time.Duration
	logger       *slog.Logger
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the regional Vertex endpoint, for tests.
func WithBaseURL(url string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTokenSource sets the OAuth2 token source used for authentication.
// When unset, application default credentials are used.
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(cl *Client) {
		cl.tokenSource = ts
	}
}

// WithPollInterval sets the delay between operation polls.
func WithPollInterval(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.pollInterval = d
	}
}

// WithMaxPolls bounds the number of operation polls before giving up.
func WithMaxPolls(n int) ClientOption {
	return func(cl *Client) {
		cl.maxPolls = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a Veo client for the given project and location.
// Generated videos are written to the output bucket by the provider.
func NewClient(projectID, location, outputBucket string, opts ...ClientOption) (*Client, error) {
	if projectID == "" {
		return nil, ErrProjectRequired
	}
	if outputBucket == "" {
		return nil, ErrOutputBucketRequired
	}
	if location == "" {
		location = "us-central1"
	}

	c := &Client{
		projectID:    projectID,
		location:     location,
		outputBucket: outputBucket,
		baseURL:      fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1", location),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		pollInterval: 10 * time.Second,
		maxPolls:     60,
		maxRetries:   3,
		baseBackoff:  1 * time.Second,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tokenSource == nil {
		ts, err := google.DefaultTokenSource(context.Background(), "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, fmt.Errorf("veo: default credentials: %w", err)
		}
		c.tokenSource = ts
	}

	return c, nil
}

// modelURL builds the publisher model resource URL for a model name.
func (c *Client) modelURL(modelName string) string {
	return fmt.Sprintf("%s/projects/%s/locations/%s/publishers/google/models/%s",
		c.baseURL, c.projectID, c.location, modelName)
}

// Generate maps the request's mode to the provider parameter shape, applies
// the model's capability policy, submits the long-running operation, and
// polls it to completion.
func (c *Client) Generate(ctx context.Context, req *GenerationRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := LookupModel(req.ModelVersionID)
	if cfg == nil {
		return nil, newError(KindUnsupportedCapability, "unknown Veo model version: %s", req.ModelVersionID)
	}

	mode := req.Source.Mode()
	if !cfg.SupportsMode(mode) {
		return nil, newError(KindUnsupportedCapability, "%s is not supported by model %s", mode, cfg.ModelName)
	}
	if override, ok := cfg.ModeOverrides[mode]; ok && !override.SupportsStyleReference {
		if r2v, ok := req.Source.(ReferenceToVideo); ok && r2v.Style != nil {
			return nil, newError(KindUnsupportedCapability, "style references are not supported by model %s", cfg.ModelName)
		}
	}

	body := c.buildRequest(req, cfg, mode)

	c.logger.Info("submitting veo generation",
		slog.String("model", cfg.ModelName),
		slog.String("mode", string(mode)),
		slog.Int("duration_seconds", req.DurationSeconds),
		slog.Int("sample_count", req.VideoCount),
		slog.String("aspect_ratio", req.AspectRatio),
	)

	var op operation
	submitURL := c.modelURL(cfg.ModelName) + ":predictLongRunning"
	if err := c.doRequestWithRetry(ctx, submitURL, body, &op); err != nil {
		return nil, wrapError(KindProviderError, err, "submit failed: %v", err)
	}
	if op.Name == "" {
		return nil, newError(KindProviderError, "submit returned no operation name")
	}

	done, err := c.pollOperation(ctx, cfg.ModelName, op.Name)
	if err != nil {
		return nil, err
	}

	return c.classify(done, req)
}

// buildRequest assembles the provider request body. This is the one place
// mode-specific branching belongs.
func (c *Client) buildRequest(req *GenerationRequest, cfg *ModelConfig, mode Mode) predictRequest {
	instance := predictInstance{Prompt: req.Prompt}

	switch src := req.Source.(type) {
	case ImageToVideo:
		instance.Image = &imageRef{GCSURI: src.Image.URI, MimeType: src.Image.MimeType}
	case Interpolation:
		instance.Image = &imageRef{GCSURI: src.First.URI, MimeType: src.First.MimeType}
		instance.LastFrame = &imageRef{GCSURI: src.Last.URI, MimeType: src.Last.MimeType}
	case ReferenceToVideo:
		if src.Style != nil {
			instance.ReferenceImages = append(instance.ReferenceImages, referenceImage{
				Image:         imageRef{GCSURI: src.Style.URI, MimeType: src.Style.MimeType},
				ReferenceType: "style",
			})
		}
		for _, asset := range src.Assets {
			instance.ReferenceImages = append(instance.ReferenceImages, referenceImage{
				Image:         imageRef{GCSURI: asset.URI, MimeType: asset.MimeType},
				ReferenceType: "asset",
			})
		}
	case Extension:
		mimeType := src.Video.MimeType
		if mimeType == "" {
			mimeType = "video/mp4"
		}
		instance.Video = &videoRef{GCSURI: src.Video.URI, MimeType: mimeType}
	}

	params := predictParameters{
		StorageURI:       fmt.Sprintf("gs://%s", c.outputBucket),
		SampleCount:      req.VideoCount,
		AspectRatio:      req.AspectRatio,
		DurationSeconds:  req.DurationSeconds,
		Resolution:       req.Resolution,
		PersonGeneration: personGenerationValue(req.PersonGeneration),
		NegativePrompt:   req.NegativePrompt,
	}

	// Capability policy: start from the model default, let the caller's
	// choice through only when the model supports enhancement, and force it
	// on when the model mandates it.
	enhance := cfg.DefaultPromptEnhancement
	if cfg.SupportsPromptEnhancement {
		enhance = req.EnhancePrompt
	}
	if cfg.RequiresPromptEnhancement {
		enhance = true
	}
	params.EnhancePrompt = &enhance

	// Audio generation exists only on the Veo 3 family; the flag is omitted
	// entirely for models that do not know it.
	if ModelSupportsAudio(req.ModelVersionID) {
		audio := req.GenerateAudio
		params.GenerateAudio = &audio
	}

	return predictRequest{
		Instances:  []predictInstance{instance},
		Parameters: params,
	}
}

// pollOperation fetches the operation at a fixed interval until the provider
// reports completion or the bounded window is exhausted.
func (c *Client) pollOperation(ctx context.Context, modelName, opName string) (*operation, error) {
	fetchURL := c.modelURL(modelName) + ":fetchPredictOperation"
	ref := operationRef{OperationName: opName}

	for i := 0; i < c.maxPolls; i++ {
		var op operation
		if err := c.doRequestWithRetry(ctx, fetchURL, ref, &op); err != nil {
			return nil, wrapError(KindProviderError, err, "poll failed: %v", err)
		}
		if op.Done {
			return &op, nil
		}

		c.logger.Debug("veo operation in progress",
			slog.String("operation", opName),
			slog.Int("poll", i+1),
		)

		select {
		case <-ctx.Done():
			return nil, wrapError(KindTimeout, ctx.Err(), "generation cancelled: %v", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}

	return nil, newError(KindTimeout, "operation %s did not complete within %s",
		opName, time.Duration(c.maxPolls)*c.pollInterval)
}

// classify translates a completed operation into a Result or a typed error.
func (c *Client) classify(op *operation, req *GenerationRequest) (*Result, error) {
	if op.Error != nil {
		return nil, newError(KindProviderError, "API error %d: %s", op.Error.Code, op.Error.Message)
	}
	if op.Response == nil {
		return nil, newError(KindProviderError, "operation done without a response payload")
	}

	resp := op.Response
	if len(resp.Videos) == 0 {
		if resp.RAIMediaFilteredCount > 0 {
			reason := "output blocked by safety filters"
			if len(resp.RAIMediaFilteredReasons) > 0 {
				reason = resp.RAIMediaFilteredReasons[0]
			}
			return nil, newError(KindContentFiltered, "%s", reason)
		}
		return nil, newError(KindProviderError, "API reported success but returned no video URIs")
	}

	if resp.RAIMediaFilteredCount > 0 {
		c.logger.Warn("some outputs were filtered",
			slog.Int("filtered", resp.RAIMediaFilteredCount),
			slog.Int("returned", len(resp.Videos)),
		)
	}

	uris := make([]string, 0, len(resp.Videos))
	for _, v := range resp.Videos {
		uris = append(uris, v.GCSURI)
	}

	c.logger.Info("veo generation complete",
		slog.Int("videos", len(uris)),
		slog.String("resolution", req.Resolution),
	)

	return &Result{
		VideoURIs:       uris,
		Resolution:      req.Resolution,
		DurationSeconds: float64(req.DurationSeconds),
	}, nil
}

// doRequestWithRetry performs a POST with exponential backoff on transient
// failures.
func (c *Client) doRequestWithRetry(ctx context.Context, url string, payload any, result any) error {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("veo: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		err := c.doRequest(ctx, url, payload, result)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("veo: max retries exceeded: %w", lastErr)
}

// doRequest performs a single authenticated POST.
func (c *Client) doRequest(ctx context.Context, url string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("veo: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("veo: create request: %w", err)
	}

	token, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("veo: fetch access token: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("veo: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("veo: read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(respBody))
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return &retryableError{err: fmt.Errorf("veo: status %d: %s", resp.StatusCode, msg)}
		}
		return fmt.Errorf("veo: status %d: %s", resp.StatusCode, msg)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("veo: unmarshal response: %w", err)
		}
	}

	return nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// Compile-time check that Client implements Generator.
var _ Generator = (*Client)(nil)
