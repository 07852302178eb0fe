package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/textshelf/textshelf/internal/errs"
	"github.com/textshelf/textshelf/internal/model"
	"github.com/textshelf/textshelf/internal/notify"
)

// DefaultName labels uploads whose file name trims to nothing.
const DefaultName = "Untitled resource"

// ResourceRepo implements repository.ResourceRepository using PostgreSQL.
// Every committed mutation is followed by a broadcast on events.
type ResourceRepo struct {
	db     *DB
	events *notify.Broadcaster
}

// NewResourceRepo constructs a resource repository.
func NewResourceRepo(db *DB, events *notify.Broadcaster) *ResourceRepo {
	return &ResourceRepo{db: db, events: events}
}

func (r *ResourceRepo) notify() {
	if r.events != nil {
		r.events.Notify()
	}
}

// NormalizeName trims the raw file name, strips a trailing extension-like
// suffix and falls back to DefaultName when nothing remains.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultName
	}
	lastDot := strings.LastIndex(trimmed, ".")
	if lastDot <= 0 {
		return trimmed
	}
	return trimmed[:lastDot]
}

// Create persists a new resource with a fresh id and reading position 0.
func (r *ResourceRepo) Create(
	ctx context.Context, name string, size int64, content string, segments []string,
) (*model.ResourceRecord, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	rec := &model.ResourceRecord{
		ID:        id,
		Name:      NormalizeName(name),
		Size:      size,
		CreatedAt: time.Now().UTC(),
		Content:   content,
		Segments:  segments,
	}

	const ins = `
INSERT INTO resources (id, name, size, created_at, archived_at, content, segments, reading_position)
VALUES ($1,$2,$3,$4,NULL,$5,$6,0)`
	if _, err := r.db.Pool.Exec(ctx, ins, rec.ID, rec.Name, rec.Size, rec.CreatedAt, rec.Content, rec.Segments); err != nil {
		return nil, mapErr(err)
	}
	r.notify()
	return rec, nil
}

// List returns summaries of non-archived resources, newest first. Segments
// stay in the database; only their cardinality is read.
func (r *ResourceRepo) List(ctx context.Context) ([]model.ResourceSummary, error) {
	const q = `
SELECT id, name, size, created_at, cardinality(segments), reading_position
FROM resources
WHERE archived_at IS NULL
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []model.ResourceSummary
	for rows.Next() {
		var s model.ResourceSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Size, &s.CreatedAt, &s.SegmentCount, &s.ReadingPosition); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, s)
	}
	return out, mapErr(rows.Err())
}

// Get returns a single resource by id, archived or not.
func (r *ResourceRepo) Get(ctx context.Context, id uuid.UUID) (*model.ResourceRecord, error) {
	const q = `
SELECT id, name, size, created_at, archived_at, content, segments, reading_position
FROM resources WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var rec model.ResourceRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.Size, &rec.CreatedAt, &rec.ArchivedAt,
		&rec.Content, &rec.Segments, &rec.ReadingPosition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, mapErr(err)
	}
	return &rec, nil
}

// Rename updates the display name after validating it is non-empty.
func (r *ResourceRepo) Rename(ctx context.Context, id uuid.UUID, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("empty name: %w", errs.ErrInvalidInput)
	}

	const upd = `UPDATE resources SET name=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, upd, id, trimmed)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	r.notify()
	return nil
}

// Archive marks the resource as archived. Re-archiving refreshes the
// timestamp.
func (r *ResourceRepo) Archive(ctx context.Context, id uuid.UUID) error {
	const upd = `UPDATE resources SET archived_at=now() WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, upd, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	r.notify()
	return nil
}

// Remove deletes the resource permanently. Deleting an absent id is a no-op.
func (r *ResourceRepo) Remove(ctx context.Context, id uuid.UUID) error {
	const del = `DELETE FROM resources WHERE id=$1`
	if _, err := r.db.Pool.Exec(ctx, del, id); err != nil {
		return mapErr(err)
	}
	r.notify()
	return nil
}

// AdvancePosition reads the segment at the current cursor and moves the
// cursor forward, both inside one transaction. The FOR UPDATE row lock
// serializes concurrent advances on the same resource so no segment is
// skipped or delivered twice. Returns (nil, nil) when the resource is
// missing, segmentless or fully read.
func (r *ResourceRepo) AdvancePosition(ctx context.Context, id uuid.UUID) (res *model.SegmentResult, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const sel = `
SELECT reading_position, cardinality(segments), COALESCE(segments[reading_position+1], '')
FROM resources WHERE id=$1 FOR UPDATE`
	var pos, total int
	var segment string
	scanErr := tx.QueryRow(ctx, sel, id).Scan(&pos, &total, &segment)
	switch {
	case errors.Is(scanErr, pgx.ErrNoRows):
		_ = tx.Rollback(ctx)
		return nil, nil
	case scanErr != nil:
		err = mapErr(scanErr)
		return nil, err
	}
	if total == 0 || pos >= total {
		_ = tx.Rollback(ctx)
		return nil, nil
	}

	const upd = `UPDATE resources SET reading_position=$2 WHERE id=$1`
	if _, err = tx.Exec(ctx, upd, id, pos+1); err != nil {
		err = mapErr(err)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		err = mapErr(err)
		return nil, err
	}

	r.notify()
	return &model.SegmentResult{
		Segment:       segment,
		Position:      pos,
		TotalSegments: total,
		HasMore:       pos+1 < total,
	}, nil
}

// ResetPosition moves the reading cursor back to the first segment.
func (r *ResourceRepo) ResetPosition(ctx context.Context, id uuid.UUID) error {
	const upd = `UPDATE resources SET reading_position=0 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, upd, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	r.notify()
	return nil
}
