package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Compile-time check that GCSStorage implements Storage.
var _ Storage = (*GCSStorage)(nil)

// GCSStorage stores media in a Google Cloud Storage bucket. This is the
// primary backend: Veo writes its generated videos to GCS, so produced
// artifacts and uploaded references live behind the same locator scheme.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStorage creates a GCS backend over the given bucket. Uploads are
// keyed under the prefix (default "uploads").
func NewGCSStorage(client *gcs.Client, bucket, prefix string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, errors.New("storage: GCS bucket is required")
	}
	if prefix == "" {
		prefix = "uploads"
	}
	return &GCSStorage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Upload writes the data to a new object and returns its gs:// locator.
func (s *GCSStorage) Upload(ctx context.Context, name string, data io.Reader) (string, error) {
	object := fmt.Sprintf("%s/%s-%s", s.prefix, uuid.NewString(), path.Base(name))

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", object, err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, object), nil
}

// Download opens the object behind a gs:// locator. Any bucket is accepted,
// not only the upload bucket, because generated videos land in the Veo
// output bucket.
func (s *GCSStorage) Download(ctx context.Context, locator string) (io.ReadCloser, error) {
	bucket, object, err := parseGCSLocator(locator)
	if err != nil {
		return nil, err
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, locator)
		}
		return nil, fmt.Errorf("gcs read %s: %w", locator, err)
	}
	return r, nil
}

// Delete removes the object behind a gs:// locator.
func (s *GCSStorage) Delete(ctx context.Context, locator string) error {
	bucket, object, err := parseGCSLocator(locator)
	if err != nil {
		return err
	}

	if err := s.client.Bucket(bucket).Object(object).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, locator)
		}
		return fmt.Errorf("gcs delete %s: %w", locator, err)
	}
	return nil
}

// parseGCSLocator splits a gs://bucket/object locator.
func parseGCSLocator(locator string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(locator, "gs://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedLocator, locator)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedLocator, locator)
	}
	return bucket, object, nil
}
