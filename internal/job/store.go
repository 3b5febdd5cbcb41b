package job

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a job cannot be found by ID.
var ErrNotFound = errors.New("job: not found")

// Store is the persistence port over a document collection. Updates are
// field-level merges: unspecified fields are left untouched, and a single
// update is atomic from the store's perspective so readers never observe a
// half-written status/result pair.
type Store interface {
	// Insert persists a new job and returns the assigned ID. The store owns
	// ID assignment; any ID already set on the job is ignored.
	Insert(ctx context.Context, j *Job) (string, error)

	// Get retrieves a job by ID. Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (*Job, error)

	// UpdateFields merges the given fields into the job document. Field
	// names use the document paths of the Job struct tags (for example
	// "status" or "result"). Returns ErrNotFound if the ID is unknown.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}
