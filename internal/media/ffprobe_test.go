package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/genmedia/studio-api/internal/storage"
)

// stubStorage serves a fixed payload for any locator.
type stubStorage struct {
	data []byte
	err  error
}

func (s *stubStorage) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return name, nil
}

func (s *stubStorage) Download(_ context.Context, _ string) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *stubStorage) Delete(_ context.Context, _ string) error {
	return nil
}

var _ storage.Storage = (*stubStorage)(nil)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"12.04", 12.04, false},
		{"8.000000\n", 8, false},
		{"  5.5  ", 5.5, false},
		{"", 0, true},
		{"N/A", 0, true},
		{"12,04", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewProber_Defaults(t *testing.T) {
	p := NewProber(&stubStorage{}, "", "")
	if p.ffprobePath != "ffprobe" {
		t.Errorf("expected default ffprobe path, got %q", p.ffprobePath)
	}
}

func TestProbeDuration_DownloadFailure(t *testing.T) {
	p := NewProber(&stubStorage{err: errors.New("object gone")}, "", "")

	_, err := p.ProbeDuration(context.Background(), "gs://bucket/out.mp4")
	if err == nil {
		t.Fatal("expected error when the artifact cannot be fetched")
	}
}

func TestProbeDuration_FakeFFprobe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho 12.040000\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}

	p := NewProber(&stubStorage{data: []byte("not a real video")}, fake, dir)

	got, err := p.ProbeDuration(context.Background(), "gs://bucket/out.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12.04 {
		t.Errorf("expected 12.04, got %v", got)
	}
}

func TestProbeDuration_FFprobeFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho 'broken input' >&2\nexit 1\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}

	p := NewProber(&stubStorage{data: []byte("junk")}, fake, dir)

	_, err := p.ProbeDuration(context.Background(), "gs://bucket/out.mp4")
	if !errors.Is(err, ErrFFprobeExecution) {
		t.Errorf("expected ErrFFprobeExecution, got %v", err)
	}
}
