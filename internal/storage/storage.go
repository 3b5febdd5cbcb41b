// Package storage provides the media object storage port and its backends.
// Locators are backend-native URIs (gs://, s3://, or local paths) so the
// rest of the service can pass them around opaquely.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a locator does not resolve to an object.
var ErrObjectNotFound = errors.New("storage: object not found")

// ErrUnsupportedLocator is returned when a locator belongs to a different
// backend than the one asked to resolve it.
var ErrUnsupportedLocator = errors.New("storage: unsupported locator")

// Storage is the media object storage port: upload user reference media,
// download produced artifacts by locator.
type Storage interface {
	// Upload stores the data under a backend-chosen key derived from name
	// and returns the object locator.
	Upload(ctx context.Context, name string, data io.Reader) (locator string, err error)

	// Download opens the object identified by the locator. The caller is
	// responsible for closing the returned ReadCloser.
	Download(ctx context.Context, locator string) (io.ReadCloser, error)

	// Delete removes the object identified by the locator.
	Delete(ctx context.Context, locator string) error
}
