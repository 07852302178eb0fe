package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/textshelf/textshelf/internal/model"
)

// ResourceRepository provides transactional access to stored resources.
// Every mutating operation commits atomically and fires a library-change
// notification on success.
type ResourceRepository interface {
	// Create persists a new resource with a fresh id and reading position 0.
	// The name is normalized (trimmed, extension stripped, default label
	// when empty).
	Create(ctx context.Context, name string, size int64, content string, segments []string) (*model.ResourceRecord, error)

	// List returns summaries of all non-archived resources, newest first.
	List(ctx context.Context) ([]model.ResourceSummary, error)

	// Get returns a single resource by id (archived included).
	Get(ctx context.Context, id uuid.UUID) (*model.ResourceRecord, error)

	// Rename updates the display name. The name must not trim to empty.
	Rename(ctx context.Context, id uuid.UUID, name string) error

	// Archive soft-deletes the resource, hiding it from List.
	Archive(ctx context.Context, id uuid.UUID) error

	// Remove deletes the resource permanently. Absent ids are a no-op.
	Remove(ctx context.Context, id uuid.UUID) error

	// AdvancePosition reads the segment at the current reading position and
	// moves the cursor forward within one transaction. Returns (nil, nil)
	// when the resource is missing, segmentless or fully read.
	AdvancePosition(ctx context.Context, id uuid.UUID) (*model.SegmentResult, error)

	// ResetPosition moves the reading cursor back to the first segment.
	ResetPosition(ctx context.Context, id uuid.UUID) error
}
