// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrProjectIDRequired is returned when PROJECT_ID is not set but a GCP
	// backend is selected.
	ErrProjectIDRequired = errors.New("config: PROJECT_ID is required")
	// ErrVideoBucketRequired is returned when VIDEO_BUCKET is not set.
	ErrVideoBucketRequired = errors.New("config: VIDEO_BUCKET is required")
	// ErrS3BucketRequired is returned when the S3 backend is selected
	// without a bucket.
	ErrS3BucketRequired = errors.New("config: S3_BUCKET is required for the s3 storage backend")
	// ErrUnknownStorageBackend is returned for an unrecognized backend name.
	ErrUnknownStorageBackend = errors.New("config: unknown storage backend")
	// ErrUnknownJobStore is returned for an unrecognized job store name.
	ErrUnknownJobStore = errors.New("config: unknown job store")
)

// Storage backend names.
const (
	StorageGCS   = "gcs"
	StorageS3    = "s3"
	StorageLocal = "local"
)

// Job store names.
const (
	JobStoreFirestore = "firestore"
	JobStoreMemory    = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// GCP settings
	ProjectID string `env:"PROJECT_ID" json:"project_id"`
	Location  string `env:"LOCATION, default=us-central1" json:"location"`

	// Media settings
	VideoBucket     string `env:"VIDEO_BUCKET" json:"video_bucket"`
	MediaCollection string `env:"GENMEDIA_COLLECTION_NAME, default=genmedia" json:"media_collection"`

	// Storage backend: gcs, s3, or local
	StorageBackend string `env:"STORAGE_BACKEND, default=gcs" json:"storage_backend"`
	TempDir        string `env:"TEMP_DIR, default=/tmp/genmedia" json:"temp_dir"`

	// Job store backend: firestore or memory
	JobStore string `env:"JOB_STORE, default=firestore" json:"job_store"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Veo polling settings
	VeoPollInterval time.Duration `env:"VEO_POLL_INTERVAL, default=10s" json:"veo_poll_interval"`
	VeoMaxPolls     int           `env:"VEO_MAX_POLLS, default=60" json:"veo_max_polls"`

	// Probe settings
	FFprobePath string `env:"FFPROBE_PATH" json:"ffprobe_path,omitempty"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field requirements envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageGCS, StorageS3, StorageLocal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageBackend, c.StorageBackend)
	}
	switch c.JobStore {
	case JobStoreFirestore, JobStoreMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJobStore, c.JobStore)
	}

	if c.ProjectID == "" && (c.StorageBackend == StorageGCS || c.JobStore == JobStoreFirestore) {
		return ErrProjectIDRequired
	}
	if c.VideoBucket == "" {
		return ErrVideoBucketRequired
	}
	if c.StorageBackend == StorageS3 && c.S3Bucket == "" {
		return ErrS3BucketRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
