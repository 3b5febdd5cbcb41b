package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /api/veo/generate", h.Generate)
	mux.HandleFunc("GET /api/veo/job/{id}", h.GetJob)
	mux.HandleFunc("GET /api/veo/models", h.ListModels)
	mux.HandleFunc("GET /api/library", h.ListLibrary)
	mux.HandleFunc("GET /api/library/{id}", h.GetLibraryItem)
	mux.HandleFunc("POST /api/media/upload", h.Upload)

	// Identity runs before logging so the request log carries the user.
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		IdentityMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
