// Package library serves the media library the studio UI browses: ordered,
// paginated queries over the same document collection the job store writes.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/genmedia/studio-api/internal/job"
)

const defaultPageSize = 20

// maxPageSize caps a single page so one request cannot pull the whole
// collection.
const maxPageSize = 100

// ListOptions narrows and pages a library query.
type ListOptions struct {
	// Limit is the page size; defaults to 20, capped at 100.
	Limit int
	// Cursor is the document ID of the last item of the previous page.
	Cursor string
	// UserEmail filters to one user's media when set.
	UserEmail string
	// MimeType filters by media type (e.g. "video/mp4") when set.
	MimeType string
}

// Page is one page of media items plus the cursor for the next page.
// NextCursor is empty on the last page.
type Page struct {
	Items      []*job.Job
	NextCursor string
}

// Service answers media library queries.
type Service struct {
	client     *firestore.Client
	collection string
	logger     *slog.Logger
}

// NewService creates a library service over the given collection.
func NewService(client *firestore.Client, collection string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:     client,
		collection: collection,
		logger:     logger,
	}
}

// List returns one page of media items, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	q := s.client.Collection(s.collection).
		OrderBy("timestamp", firestore.Desc)
	if opts.UserEmail != "" {
		q = q.Where("user_email", "==", opts.UserEmail)
	}
	if opts.MimeType != "" {
		q = q.Where("mime_type", "==", opts.MimeType)
	}
	if opts.Cursor != "" {
		snap, err := s.client.Collection(s.collection).Doc(opts.Cursor).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil, fmt.Errorf("library: unknown cursor %q", opts.Cursor)
			}
			return nil, fmt.Errorf("library: resolve cursor: %w", err)
		}
		q = q.StartAfter(snap)
	}

	// Fetch one extra item to learn whether another page exists.
	iter := q.Limit(limit + 1).Documents(ctx)
	defer iter.Stop()

	items := make([]*job.Job, 0, limit)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("library: list: %w", err)
		}

		var item job.Job
		if err := snap.DataTo(&item); err != nil {
			// Legacy documents may not decode; skip rather than break the page.
			s.logger.Warn("skipping undecodable media item",
				slog.String("doc_id", snap.Ref.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		item.ID = snap.Ref.ID
		items = append(items, &item)
	}

	page := &Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.NextCursor = page.Items[limit-1].ID
	}
	return page, nil
}

// Count returns the total number of media items via a server-side
// aggregation, so the library header can show a count without scanning.
func (s *Service) Count(ctx context.Context) (int64, error) {
	agg := s.client.Collection(s.collection).Query.
		NewAggregationQuery().
		WithCount("all")

	results, err := agg.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("library: count: %w", err)
	}

	value, ok := results["all"].(*firestorepb.Value)
	if !ok {
		return 0, errors.New("library: count aggregation missing result")
	}
	return value.GetIntegerValue(), nil
}
