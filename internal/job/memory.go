package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of Store. Suitable for
// development and tests; production deployments use the Firestore store.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore creates a new in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]*Job),
	}
}

// Insert stores a copy of the job under a freshly assigned ID.
func (s *MemoryStore) Insert(_ context.Context, j *Job) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	clone := cloneJob(j)
	clone.ID = id
	s.jobs[id] = clone
	return id, nil
}

// Get returns a copy of the job to prevent external mutation.
func (s *MemoryStore) Get(_ context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneJob(j), nil
}

// UpdateFields merges the given fields into the stored job. The merge is
// staged on a copy and swapped in only when every field applies, so a
// rejected field leaves the record untouched and readers never see a
// partial update.
func (s *MemoryStore) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}

	staged := cloneJob(j)
	for name, value := range fields {
		if err := applyField(staged, name, value); err != nil {
			return err
		}
	}
	s.jobs[id] = staged
	return nil
}

// applyField maps a document field path onto the Job struct.
func applyField(j *Job, name string, value any) error {
	switch name {
	case "status":
		v, ok := value.(Status)
		if !ok {
			return fmt.Errorf("job: field %q expects a Status, got %T", name, value)
		}
		j.Status = v
	case "result":
		v, ok := value.(*Result)
		if !ok {
			return fmt.Errorf("job: field %q expects a *Result, got %T", name, value)
		}
		j.Result = v
	case "error_message":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("job: field %q expects a string, got %T", name, value)
		}
		j.ErrorMessage = v
	case "generation_time":
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("job: field %q expects a float64, got %T", name, value)
		}
		j.GenerationTime = v
	case "updated_at":
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("job: field %q expects a time.Time, got %T", name, value)
		}
		j.UpdatedAt = v
	default:
		return fmt.Errorf("job: unsupported update field %q", name)
	}
	return nil
}

func cloneJob(j *Job) *Job {
	clone := *j
	if j.Result != nil {
		result := *j.Result
		result.VideoURIs = append([]string(nil), j.Result.VideoURIs...)
		clone.Result = &result
	}
	clone.Request.ReferenceURIs = append([]string(nil), j.Request.ReferenceURIs...)
	return &clone
}
