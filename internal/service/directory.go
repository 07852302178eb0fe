package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/textshelf/textshelf/internal/model"
	"github.com/textshelf/textshelf/internal/notify"
	"github.com/textshelf/textshelf/internal/repository"
)

// Directory is the read/subscribe façade over the store. Listing degrades to
// an empty result when storage is unreachable; browsing must never crash the
// consumer.
type Directory struct {
	repo   repository.ResourceRepository
	events *notify.Broadcaster
	log    *zap.Logger
}

// NewDirectory constructs the directory façade.
func NewDirectory(repo repository.ResourceRepository, events *notify.Broadcaster, log *zap.Logger) *Directory {
	return &Directory{repo: repo, events: events, log: log}
}

// List returns summaries of non-archived resources, newest first. Storage
// failures are logged and reported as an empty listing.
func (d *Directory) List(ctx context.Context) []model.ResourceSummary {
	out, err := d.repo.List(ctx)
	if err != nil {
		d.log.Warn("listing resources failed", zap.Error(err))
		return nil
	}
	return out
}

// Subscribe registers a no-payload callback invoked after every committed
// store mutation. The returned func unsubscribes; the callback receives no
// further notifications once it is called.
func (d *Directory) Subscribe(fn func()) func() {
	return d.events.Subscribe(fn)
}
