package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/genmedia/studio-api/internal/job"
	"github.com/genmedia/studio-api/internal/library"
	"github.com/genmedia/studio-api/internal/storage"
	"github.com/genmedia/studio-api/internal/veo"
)

// maxUploadBytes caps a single media upload at 100 MiB.
const maxUploadBytes = 100 << 20

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	controller         *job.Controller
	store              job.Store
	library            *library.Service
	media              storage.Storage
	validator          *validator.Validate
	logger             *slog.Logger
	enableAsyncProcess bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithAsyncProcessing enables or disables background processing.
// When disabled, Generate only creates the job and returns immediately
// without starting background processing.
func WithAsyncProcessing(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.enableAsyncProcess = enabled
	}
}

// WithLibrary sets the media library service. Without one, the library
// endpoints respond 503.
func WithLibrary(svc *library.Service) HandlerOption {
	return func(h *Handlers) {
		h.library = svc
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(controller *job.Controller, store job.Store, media storage.Storage, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		controller:         controller,
		store:              store,
		media:              media,
		validator:          validator.New(),
		logger:             logger,
		enableAsyncProcess: true, // Default to enabled
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Generate handles POST /api/veo/generate requests. It records the job and
// returns its ID at once; the provider round trip happens on a detached
// background goroutine.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	genReq, err := toGenerationRequest(&req)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	jobID, err := h.controller.Create(r.Context(), genReq, UserEmail(r.Context()))
	if err != nil {
		if ge, ok := veo.AsGenerationError(err); ok {
			writeGenerationError(w, ge)
			return
		}
		h.logger.Error("failed to create job",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create job", "JOB_CREATION_FAILED")
		return
	}

	// Run with a detached context so the worker outlives the request.
	if h.enableAsyncProcess {
		go h.controller.Run(context.WithoutCancel(r.Context()), jobID, genReq)
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		JobID:  jobID,
		Status: string(job.StatusPending),
	})
}

// GetJob handles GET /api/veo/job/{id} requests.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job ID is required", "MISSING_JOB_ID")
		return
	}

	view, err := h.controller.GetStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job", "JOB_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, JobStatusResponse{
		JobID:      view.JobID,
		Status:     string(view.Status),
		VideoURI:   view.VideoURI,
		VideoURIs:  view.VideoURIs,
		Resolution: view.Resolution,
		Error:      view.ErrorMessage,
	})
}

// ListLibrary handles GET /api/library requests.
func (h *Handlers) ListLibrary(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		writeError(w, http.StatusServiceUnavailable, "media library is not configured", "LIBRARY_UNAVAILABLE")
		return
	}

	opts := library.ListOptions{
		Cursor:    r.URL.Query().Get("cursor"),
		UserEmail: r.URL.Query().Get("user_email"),
		MimeType:  r.URL.Query().Get("mime_type"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := parsePositiveInt(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "INVALID_LIMIT")
			return
		}
		opts.Limit = limit
	}

	page, err := h.library.List(r.Context(), opts)
	if err != nil {
		h.logger.Error("failed to list library",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list library", "LIBRARY_LIST_FAILED")
		return
	}

	total, err := h.library.Count(r.Context())
	if err != nil {
		h.logger.Warn("failed to count library",
			slog.String("error", err.Error()),
		)
		total = -1 // count unavailable
	}

	resp := LibraryResponse{
		Items:      make([]LibraryItem, 0, len(page.Items)),
		NextCursor: page.NextCursor,
		Total:      total,
	}
	for _, item := range page.Items {
		resp.Items = append(resp.Items, toLibraryItem(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetLibraryItem handles GET /api/library/{id} requests.
func (h *Handlers) GetLibraryItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item ID is required", "MISSING_ITEM_ID")
		return
	}

	item, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "ITEM_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get library item",
			slog.String("item_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get library item", "ITEM_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, toLibraryItem(item))
}

// Upload handles POST /api/media/upload requests: multipart uploads of
// reference images and source videos.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required", "MISSING_FILE")
		return
	}
	defer func() { _ = file.Close() }()

	locator, err := h.media.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("failed to upload media",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to upload media", "UPLOAD_FAILED")
		return
	}

	h.logger.Info("media uploaded",
		slog.String("filename", header.Filename),
		slog.String("locator", locator),
	)
	writeJSON(w, http.StatusOK, UploadResponse{Locator: locator})
}

// ListModels handles GET /api/veo/models requests.
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	configs := veo.Models()
	out := make([]ModelInfo, 0, len(configs))
	for i := range configs {
		m := &configs[i]
		modes := make([]string, 0, len(m.SupportedModes)+1)
		for _, mode := range m.SupportedModes {
			modes = append(modes, string(mode))
		}
		if m.SupportsVideoExtension {
			modes = append(modes, string(veo.ModeExtension))
		}
		aspect := ""
		if len(m.SupportedAspectRatios) > 0 {
			aspect = m.SupportedAspectRatios[0]
		}
		out = append(out, ModelInfo{
			VersionID:          m.VersionID,
			Name:               m.DisplayName,
			MaxSamples:         m.MaxSamples,
			SupportedModes:     modes,
			SupportsAudio:      veo.ModelSupportsAudio(m.VersionID),
			DefaultAspectRatio: aspect,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// toGenerationRequest maps the wire DTO to the domain request, resolving the
// flat reference fields into a single source.
func toGenerationRequest(req *GenerateRequest) (*veo.GenerationRequest, error) {
	inputs := veo.SourceInputs{}
	if req.ReferenceImageGCS != "" {
		inputs.ReferenceImage = &veo.MediaRef{URI: req.ReferenceImageGCS, MimeType: req.ReferenceImageMimeType}
	}
	if req.LastReferenceImageGCS != "" {
		inputs.LastReferenceImage = &veo.MediaRef{URI: req.LastReferenceImageGCS, MimeType: req.LastReferenceImageMimeType}
	}
	for _, ref := range req.R2VReferenceImages {
		inputs.R2VReferences = append(inputs.R2VReferences, veo.MediaRef{URI: ref.GCSURI, MimeType: ref.MimeType})
	}
	if req.R2VStyleImage != nil {
		inputs.R2VStyleImage = &veo.MediaRef{URI: req.R2VStyleImage.GCSURI, MimeType: req.R2VStyleImage.MimeType}
	}
	if req.VideoInputGCS != "" {
		inputs.VideoInput = &veo.MediaRef{URI: req.VideoInputGCS, MimeType: req.VideoInputMimeType}
	}

	source, err := veo.DeriveSource(inputs)
	if err != nil {
		return nil, err
	}

	return &veo.GenerationRequest{
		Prompt:           req.Prompt,
		NegativePrompt:   req.NegativePrompt,
		DurationSeconds:  req.DurationSeconds,
		VideoCount:       req.VideoCount,
		AspectRatio:      req.AspectRatio,
		Resolution:       req.Resolution,
		EnhancePrompt:    req.EnhancePrompt,
		GenerateAudio:    req.GenerateAudio,
		ModelVersionID:   req.ModelVersionID,
		PersonGeneration: req.PersonGeneration,
		Source:           source,
	}, nil
}

// toLibraryItem maps a stored job record to its library DTO.
func toLibraryItem(j *job.Job) LibraryItem {
	item := LibraryItem{
		ID:             j.ID,
		Status:         string(j.Status),
		UserEmail:      j.UserEmail,
		MimeType:       j.MimeType,
		Prompt:         j.Request.Prompt,
		Mode:           j.Request.Mode,
		Model:          j.Request.Model,
		GenerationTime: j.GenerationTime,
		CreatedAt:      j.CreatedAt,
	}
	if j.Result != nil {
		item.VideoURIs = j.Result.VideoURIs
		item.Resolution = j.Result.Resolution
	}
	return item
}

// writeGenerationError maps a domain error to an HTTP response. Request
// shaping problems are the caller's fault; everything else is upstream.
func writeGenerationError(w http.ResponseWriter, err error) {
	ge, ok := veo.AsGenerationError(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "generation failed", "GENERATION_FAILED")
		return
	}
	switch ge.Kind {
	case veo.KindInvalidRequest:
		writeError(w, http.StatusBadRequest, ge.Message, "INVALID_REQUEST")
	case veo.KindUnsupportedCapability:
		writeError(w, http.StatusBadRequest, ge.Message, "UNSUPPORTED_CAPABILITY")
	default:
		writeError(w, http.StatusBadGateway, ge.Message, "PROVIDER_ERROR")
	}
}

// parsePositiveInt parses a decimal string into a positive int.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
