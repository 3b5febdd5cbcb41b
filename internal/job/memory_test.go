package job

import (
	"context"
	"testing"
	"time"

	"github.com/genmedia/studio-api/internal/veo"
)

func newTestJob() *Job {
	return NewJob(&veo.GenerationRequest{
		Prompt:          "test prompt",
		DurationSeconds: 8,
		VideoCount:      1,
		ModelVersionID:  "3.1",
		Source:          veo.TextToVideo{},
	}, "user@example.com")
}

func TestMemoryStore_InsertAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, newTestJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a store-assigned ID")
	}

	found, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != id {
		t.Errorf("expected ID %s, got %s", id, found.ID)
	}
	if found.Status != StatusPending {
		t.Errorf("expected status %s, got %s", StatusPending, found.Status)
	}
}

func TestMemoryStore_InsertAssignsUniqueIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id1, _ := store.Insert(ctx, newTestJob())
	id2, _ := store.Insert(ctx, newTestJob())
	if id1 == id2 {
		t.Error("expected distinct IDs for distinct inserts")
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nonexistent")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_UpdateFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Insert(ctx, newTestJob())

	now := time.Now().UTC()
	result := &Result{
		VideoURIs:       []string{"gs://bucket/out.mp4"},
		VideoURI:        "gs://bucket/out.mp4",
		Resolution:      "720p",
		DurationSeconds: 8,
	}
	err := store.UpdateFields(ctx, id, map[string]any{
		"status":          StatusComplete,
		"result":          result,
		"generation_time": 42.5,
		"updated_at":      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, _ := store.Get(ctx, id)
	if found.Status != StatusComplete {
		t.Errorf("expected status %s, got %s", StatusComplete, found.Status)
	}
	if found.Result == nil || found.Result.VideoURI != "gs://bucket/out.mp4" {
		t.Errorf("expected result persisted, got %+v", found.Result)
	}
	if found.GenerationTime != 42.5 {
		t.Errorf("expected generation time 42.5, got %v", found.GenerationTime)
	}
	if !found.UpdatedAt.Equal(now) {
		t.Errorf("expected updated_at %v, got %v", now, found.UpdatedAt)
	}
}

func TestMemoryStore_UpdateFields_ErrorMessage(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Insert(ctx, newTestJob())
	err := store.UpdateFields(ctx, id, map[string]any{
		"status":        StatusFailed,
		"error_message": "output blocked by safety filters",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, _ := store.Get(ctx, id)
	if found.ErrorMessage != "output blocked by safety filters" {
		t.Errorf("expected error message persisted, got %q", found.ErrorMessage)
	}
}

func TestMemoryStore_UpdateFields_UnknownField(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Insert(ctx, newTestJob())
	if err := store.UpdateFields(ctx, id, map[string]any{"bogus": 1}); err == nil {
		t.Error("expected error for an unknown field")
	}
}

func TestMemoryStore_UpdateFields_WrongType(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Insert(ctx, newTestJob())
	if err := store.UpdateFields(ctx, id, map[string]any{"status": 42}); err == nil {
		t.Error("expected error for a mistyped field value")
	}
}

func TestMemoryStore_UpdateFields_RejectedMergeLeavesRecordUntouched(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Insert(ctx, newTestJob())

	err := store.UpdateFields(ctx, id, map[string]any{
		"status":        StatusProcessing,
		"error_message": 42, // mistyped; must void the whole merge
	})
	if err == nil {
		t.Fatal("expected error for a mistyped field value")
	}

	found, _ := store.Get(ctx, id)
	if found.Status != StatusPending {
		t.Errorf("expected status untouched after a rejected merge, got %s", found.Status)
	}
	if found.ErrorMessage != "" {
		t.Errorf("expected error message untouched, got %q", found.ErrorMessage)
	}
}

func TestMemoryStore_UpdateFields_NotFound(t *testing.T) {
	store := NewMemoryStore()

	err := store.UpdateFields(context.Background(), "nonexistent", map[string]any{"status": StatusProcessing})
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Insert(ctx, newTestJob())

	first, _ := store.Get(ctx, id)
	first.Status = StatusFailed
	first.Request.Prompt = "mutated"

	second, _ := store.Get(ctx, id)
	if second.Status != StatusPending {
		t.Error("mutating a returned job should not affect the stored record")
	}
	if second.Request.Prompt != "test prompt" {
		t.Error("mutating a returned snapshot should not affect the stored record")
	}
}

func TestMemoryStore_InsertCopiesInput(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	j := newTestJob()
	id, _ := store.Insert(ctx, j)

	j.Status = StatusFailed

	found, _ := store.Get(ctx, id)
	if found.Status != StatusPending {
		t.Error("mutating the inserted job should not affect the stored record")
	}
}
