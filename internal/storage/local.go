package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Compile-time check that LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)

// LocalStorage stores media on the local filesystem, for development and
// tests. Locators are absolute file paths under the base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a local backend rooted at baseDir, creating the
// directory if needed.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// Upload writes the data to a new file and returns its path.
func (s *LocalStorage) Upload(_ context.Context, name string, data io.Reader) (string, error) {
	target := filepath.Join(s.baseDir, uuid.NewString()+"-"+filepath.Base(name))

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return target, nil
}

// Download opens a file previously stored under the base directory.
func (s *LocalStorage) Download(_ context.Context, locator string) (io.ReadCloser, error) {
	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304 - path is confined to baseDir by resolve
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, locator)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Delete removes a file previously stored under the base directory.
func (s *LocalStorage) Delete(_ context.Context, locator string) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, locator)
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// resolve confines a locator to the base directory.
func (s *LocalStorage) resolve(locator string) (string, error) {
	path := filepath.Clean(locator)
	if !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLocator, locator)
	}
	return path, nil
}
