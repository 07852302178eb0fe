// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// ResourceRecord is a stored plain-text resource with its derived segments
// and the per-resource reading cursor. Content and segments are fixed at
// creation time; only name, archived_at and reading_position change later.
type ResourceRecord struct {
	ID              uuid.UUID  // generated at creation, immutable
	Name            string     // human label, never empty after normalization
	Size            int64      // byte length of the original upload
	CreatedAt       time.Time  // default listing order (newest first)
	ArchivedAt      *time.Time // non-nil marks the record archived (soft delete)
	Content         string     // full decoded text
	Segments        []string   // fixed-size slices of Content
	ReadingPosition int        // index of the next unread segment, 0 <= pos <= len(Segments)
}

// FullyRead reports whether every segment has been delivered.
func (r *ResourceRecord) FullyRead() bool { return r.ReadingPosition >= len(r.Segments) }

// ResourceSummary is the listing projection. It never carries Content or
// Segments so that browsing stays cheap regardless of resource size.
type ResourceSummary struct {
	ID              uuid.UUID
	Name            string
	Size            int64
	CreatedAt       time.Time
	SegmentCount    int
	ReadingPosition int
}

// Unread reports whether the resource still has undelivered segments.
func (s ResourceSummary) Unread() bool {
	return s.SegmentCount > 0 && s.ReadingPosition < s.SegmentCount
}

// SegmentResult describes one delivered segment: the text, the index just
// consumed, the total count and whether unread segments remain.
type SegmentResult struct {
	Segment       string
	Position      int
	TotalSegments int
	HasMore       bool
}
