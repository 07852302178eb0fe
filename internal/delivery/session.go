// Package delivery implements the segment delivery protocol: a session
// remembers which resource is active and hands out one segment per call,
// moving to the next unread resource once the current one is exhausted.
package delivery

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/textshelf/textshelf/internal/model"
)

// Store is the slice of the resource store the protocol needs.
type Store interface {
	AdvancePosition(ctx context.Context, id uuid.UUID) (*model.SegmentResult, error)
}

// Directory lists resource summaries for the unread-resource scan.
type Directory interface {
	List(ctx context.Context) []model.ResourceSummary
}

// Session holds the delivery state for one consumer. Sessions are
// independent; several may run against the same store. Methods are safe for
// interleaved use from multiple goroutines.
type Session struct {
	mu     sync.Mutex
	active uuid.UUID

	store Store
	dir   Directory
	log   *zap.Logger
}

// NewSession constructs a delivery session with no active resource.
func NewSession(store Store, dir Directory, log *zap.Logger) *Session {
	return &Session{store: store, dir: dir, log: log}
}

// SetActive pins a resource for subsequent deliveries.
func (s *Session) SetActive(id uuid.UUID) {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
}

// Clear drops the active resource; the next delivery re-scans the listing.
func (s *Session) Clear() {
	s.SetActive(uuid.Nil)
}

// Active returns the currently pinned resource id (uuid.Nil when none).
func (s *Session) Active() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// DeliverNext returns the next unread segment, or nil when no content is
// available; that is a normal empty state, not an error. Storage failures during
// the lookup are swallowed: the protocol degrades instead of failing the
// delivery. Once the returned result reports HasMore == false the active
// resource is cleared so the next call scans for another unread resource.
func (s *Session) DeliverNext(ctx context.Context) *model.SegmentResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != uuid.Nil {
		if res := s.advance(ctx, s.active); res != nil {
			return res
		}
		// Exhausted or gone; fall through to the scan.
		s.active = uuid.Nil
	}

	for _, sum := range s.dir.List(ctx) {
		if !sum.Unread() {
			continue
		}
		s.active = sum.ID
		if res := s.advance(ctx, sum.ID); res != nil {
			return res
		}
		s.active = uuid.Nil
		break // one attempt per delivery; next call re-scans
	}
	return nil
}

// advance calls the store and clears the active id when the resource just
// ran out of segments. Caller holds s.mu.
func (s *Session) advance(ctx context.Context, id uuid.UUID) *model.SegmentResult {
	res, err := s.store.AdvancePosition(ctx, id)
	if err != nil {
		s.log.Debug("advance failed", zap.String("id", id.String()), zap.Error(err))
		return nil
	}
	if res != nil && !res.HasMore {
		s.active = uuid.Nil
	}
	return res
}
