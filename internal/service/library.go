// Package service holds the application services: the library write side
// (upload, rename, archive, remove, reset) and the read-side directory.
package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/textshelf/textshelf/internal/config"
	"github.com/textshelf/textshelf/internal/errs"
	"github.com/textshelf/textshelf/internal/model"
	"github.com/textshelf/textshelf/internal/repository"
	"github.com/textshelf/textshelf/internal/segmenter"
)

// PlainTextExtension is the single supported upload suffix.
const PlainTextExtension = ".txt"

// Library validates uploads and mediates all mutations of the resource
// store.
type Library struct {
	repo           repository.ResourceRepository
	maxUploadBytes int64
	segmentSize    int
	log            *zap.Logger
}

// NewLibrary constructs the library service. Zero config values fall back to
// the shipped defaults.
func NewLibrary(repo repository.ResourceRepository, cfg config.LibraryConfig, log *zap.Logger) *Library {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = config.DefaultSegmentSize
	}
	return &Library{repo: repo, maxUploadBytes: cfg.MaxUploadBytes, segmentSize: cfg.SegmentSize, log: log}
}

// Upload validates the file, decodes it to text, segments the text and
// persists a new resource.
func (s *Library) Upload(ctx context.Context, filename string, data []byte) (*model.ResourceRecord, error) {
	if !strings.HasSuffix(strings.ToLower(filename), PlainTextExtension) {
		return nil, fmt.Errorf("only plain text (%s) resources are supported: %w", PlainTextExtension, errs.ErrInvalidInput)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, fmt.Errorf("file size exceeds limit (max %dMB): %w", s.maxUploadBytes/1024/1024, errs.ErrInvalidInput)
	}

	content := decodeText(data)
	segments, err := segmenter.SplitContext(ctx, content, s.segmentSize)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.Create(ctx, filename, int64(len(data)), content, segments)
	if err != nil {
		return nil, err
	}
	s.log.Info("resource uploaded",
		zap.String("id", rec.ID.String()),
		zap.String("name", rec.Name),
		zap.Int64("size", rec.Size),
		zap.Int("segments", len(rec.Segments)),
	)
	return rec, nil
}

// Get fetches a single resource by id.
func (s *Library) Get(ctx context.Context, id uuid.UUID) (*model.ResourceRecord, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("empty id: %w", errs.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// Rename updates the resource name.
func (s *Library) Rename(ctx context.Context, id uuid.UUID, name string) error {
	if id == uuid.Nil {
		return fmt.Errorf("empty id: %w", errs.ErrInvalidInput)
	}
	return s.repo.Rename(ctx, id, name)
}

// Archive hides the resource from listings without deleting it.
func (s *Library) Archive(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("empty id: %w", errs.ErrInvalidInput)
	}
	return s.repo.Archive(ctx, id)
}

// Remove deletes the resource permanently.
func (s *Library) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("empty id: %w", errs.ErrInvalidInput)
	}
	return s.repo.Remove(ctx, id)
}

// ResetPosition rewinds the reading cursor to the first segment.
func (s *Library) ResetPosition(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("empty id: %w", errs.ErrInvalidInput)
	}
	return s.repo.ResetPosition(ctx, id)
}

// decodeText decodes an uploaded byte buffer: strict UTF-8 first, GB18030 as
// a regional fallback, and lossy UTF-8 (replacement runes) as a last resort.
// It never fails.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	if out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data); err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
		return string(out)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
