// Package bootstrap provides dependency initialization for the studio API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"

	"github.com/genmedia/studio-api/internal/config"
	"github.com/genmedia/studio-api/internal/job"
	"github.com/genmedia/studio-api/internal/library"
	"github.com/genmedia/studio-api/internal/media"
	"github.com/genmedia/studio-api/internal/server"
	"github.com/genmedia/studio-api/internal/storage"
	"github.com/genmedia/studio-api/internal/veo"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Controller *job.Controller
	JobStore   job.Store
	Library    *library.Service
	Media      storage.Storage

	firestoreClient *firestore.Client
	gcsClient       *gcs.Client
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	mediaStore, err := deps.initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.Media = mediaStore

	veoClient, err := veo.NewClient(cfg.ProjectID, cfg.Location, cfg.VideoBucket,
		veo.WithPollInterval(cfg.VeoPollInterval),
		veo.WithMaxPolls(cfg.VeoMaxPolls),
		veo.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create veo client: %w", err)
	}

	store, err := deps.initJobStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.JobStore = store

	prober := media.NewProber(mediaStore, cfg.FFprobePath, cfg.TempDir)

	deps.Controller = job.NewController(store, veoClient, logger,
		job.WithDurationProber(prober),
	)

	return deps, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func (d *Dependencies) initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageGCS:
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create GCS client: %w", err)
		}
		d.gcsClient = client
		store, err := storage.NewGCSStorage(client, cfg.VideoBucket, "uploads")
		if err != nil {
			return nil, fmt.Errorf("create GCS storage: %w", err)
		}
		logger.Info("GCS storage configured",
			slog.String("bucket", cfg.VideoBucket),
		)
		return store, nil

	case config.StorageS3:
		store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return store, nil

	default:
		store, err := storage.NewLocalStorage(cfg.TempDir)
		if err != nil {
			return nil, fmt.Errorf("create local storage: %w", err)
		}
		logger.Info("local storage configured",
			slog.String("base_dir", cfg.TempDir),
		)
		return store, nil
	}
}

// initJobStore creates the job store based on configuration.
func (d *Dependencies) initJobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (job.Store, error) {
	if cfg.JobStore == config.JobStoreMemory {
		logger.Info("in-memory job store configured")
		return job.NewMemoryStore(), nil
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("create Firestore client: %w", err)
	}
	d.firestoreClient = client
	d.Library = library.NewService(client, cfg.MediaCollection, logger)
	logger.Info("Firestore job store configured",
		slog.String("collection", cfg.MediaCollection),
	)
	return job.NewFirestoreStore(client, cfg.MediaCollection), nil
}

// Close releases the backing clients. Safe to call once at shutdown.
func (d *Dependencies) Close() error {
	var firstErr error
	if d.firestoreClient != nil {
		if err := d.firestoreClient.Close(); err != nil {
			firstErr = err
		}
	}
	if d.gcsClient != nil {
		if err := d.gcsClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewHandlers builds the HTTP handlers over the initialized dependencies.
func (d *Dependencies) NewHandlers(logger *slog.Logger) *server.Handlers {
	opts := []server.HandlerOption{}
	if d.Library != nil {
		opts = append(opts, server.WithLibrary(d.Library))
	}
	return server.NewHandlers(d.Controller, d.JobStore, d.Media, logger, opts...)
}
