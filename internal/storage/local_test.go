package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	locator, err := store.Upload(ctx, "frame.png", bytes.NewBufferString("image bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if locator == "" {
		t.Fatal("expected a locator")
	}
	if !strings.HasSuffix(locator, "-frame.png") {
		t.Errorf("expected locator to keep the base name, got %s", locator)
	}

	r, err := store.Download(ctx, locator)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	data, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("expected round-tripped content, got %q", data)
	}

	if err := store.Delete(ctx, locator); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Download(ctx, locator); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound after delete, got %v", err)
	}
}

func TestLocalStorage_UniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	first, _ := store.Upload(ctx, "same.png", bytes.NewBufferString("a"))
	second, _ := store.Upload(ctx, "same.png", bytes.NewBufferString("b"))
	if first == second {
		t.Error("expected distinct locators for identical names")
	}
}

func TestLocalStorage_RejectsOutsideLocators(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	for _, locator := range []string{
		"/etc/passwd",
		"../../secret",
		"gs://bucket/object",
	} {
		if _, err := store.Download(ctx, locator); !errors.Is(err, ErrUnsupportedLocator) {
			t.Errorf("Download(%q): expected ErrUnsupportedLocator, got %v", locator, err)
		}
		if err := store.Delete(ctx, locator); !errors.Is(err, ErrUnsupportedLocator) {
			t.Errorf("Delete(%q): expected ErrUnsupportedLocator, got %v", locator, err)
		}
	}
}

func TestLocalStorage_RequiresBaseDir(t *testing.T) {
	if _, err := NewLocalStorage(""); err == nil {
		t.Error("expected error for empty base directory")
	}
}

func TestParseGCSLocator(t *testing.T) {
	tests := []struct {
		locator    string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://bucket/object.mp4", "bucket", "object.mp4", false},
		{"gs://bucket/nested/path/object.mp4", "bucket", "nested/path/object.mp4", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"s3://bucket/object", "", "", true},
		{"not-a-locator", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			bucket, object, err := parseGCSLocator(tt.locator)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("got (%q, %q), want (%q, %q)", bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestParseS3Locator(t *testing.T) {
	tests := []struct {
		locator    string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"s3://bucket/key.mp4", "bucket", "key.mp4", false},
		{"s3://bucket/nested/key.mp4", "bucket", "nested/key.mp4", false},
		{"s3://bucket", "", "", true},
		{"gs://bucket/key", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			bucket, key, err := parseS3Locator(tt.locator)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Errorf("got (%q, %q), want (%q, %q)", bucket, key, tt.wantBucket, tt.wantKey)
			}
		})
	}
}
