package job

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Compile-time check that FirestoreStore implements Store.
var _ Store = (*FirestoreStore)(nil)

// FirestoreStore persists jobs as documents in a Firestore collection, one
// document per media item. The same collection backs the media library.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore creates a store over the given collection.
func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{
		client:     client,
		collection: collection,
	}
}

// Insert writes the job to a new document and returns the document ID.
func (s *FirestoreStore) Insert(ctx context.Context, j *Job) (string, error) {
	doc := s.client.Collection(s.collection).NewDoc()
	if _, err := doc.Create(ctx, j); err != nil {
		return "", fmt.Errorf("firestore insert: %w", err)
	}
	return doc.ID, nil
}

// Get reads the job document by ID.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*Job, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore get: %w", err)
	}

	var j Job
	if err := snap.DataTo(&j); err != nil {
		return nil, fmt.Errorf("firestore decode %s: %w", id, err)
	}
	j.ID = snap.Ref.ID
	return &j, nil
}

// UpdateFields applies a field-level merge to the job document. Firestore
// document writes are atomic, so readers never observe a partial update.
func (s *FirestoreStore) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for name, value := range fields {
		updates = append(updates, firestore.Update{Path: name, Value: value})
	}

	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("firestore update: %w", err)
	}
	return nil
}
