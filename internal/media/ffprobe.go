// Package media probes produced video artifacts with ffprobe.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/genmedia/studio-api/internal/storage"
)

// ErrFFprobeExecution is returned when the ffprobe command fails.
var ErrFFprobeExecution = errors.New("ffprobe execution failed")

// Prober measures media durations by downloading the artifact through the
// storage backend and inspecting it with ffprobe.
type Prober struct {
	store       storage.Storage
	ffprobePath string
	tempDir     string
}

// NewProber creates a Prober. If ffprobePath is empty it defaults to
// "ffprobe" (found via PATH); if tempDir is empty the OS temp dir is used.
func NewProber(store storage.Storage, ffprobePath, tempDir string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{
		store:       store,
		ffprobePath: ffprobePath,
		tempDir:     tempDir,
	}
}

// ProbeDuration returns the duration in seconds of the video behind the
// given locator.
func (p *Prober) ProbeDuration(ctx context.Context, locator string) (float64, error) {
	r, err := p.store.Download(ctx, locator)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", locator, err)
	}
	defer func() { _ = r.Close() }()

	f, err := os.CreateTemp(p.tempDir, "probe-*.mp4")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	if _, err := io.Copy(f, r); err != nil {
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	return p.probeFile(ctx, f.Name())
}

// probeFile runs ffprobe against a local file.
func (p *Prober) probeFile(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	return parseDuration(stdout.String())
}

// parseDuration parses ffprobe's duration output.
func parseDuration(out string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}
	return d, nil
}
