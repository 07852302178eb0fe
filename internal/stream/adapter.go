// Package stream turns one delivered segment (or the offline fallback) into
// a cancellable sequence of growing partial results, simulating progressive
// generation for a chat-style consumer.
package stream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/textshelf/textshelf/internal/config"
	"github.com/textshelf/textshelf/internal/model"
)

// OfflineReply is streamed when no resource has unread segments.
const OfflineReply = "This is a demo response. Add a plain-text resource to the shelf to start reading content in segments."

// Status of one update in a streaming run.
type Status string

const (
	// StatusRunning marks an intermediate partial result.
	StatusRunning Status = "running"
	// StatusComplete is the terminal state of an uninterrupted run.
	StatusComplete Status = "complete"
	// StatusCancelled is the terminal state of a cancelled run. The update
	// carries only the text accumulated before cancellation was observed.
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further updates follow.
func (s Status) Terminal() bool { return s == StatusComplete || s == StatusCancelled }

// Update is one immutable snapshot of a streaming run: the accumulated text,
// an optional reading-progress annotation and the run status.
type Update struct {
	Text     string
	Progress string
	Status   Status
}

// Deliverer hands out the next segment; nil means no content is available.
type Deliverer interface {
	DeliverNext(ctx context.Context) *model.SegmentResult
}

// Adapter produces streaming runs. Safe for concurrent use; each Run is an
// independent single-pass sequence.
type Adapter struct {
	chunkSize      int
	chunkDelay     time.Duration
	reasoningDelay time.Duration
	log            *zap.Logger
}

// NewAdapter constructs an adapter. Zero config values fall back to the
// shipped defaults.
func NewAdapter(cfg config.StreamingConfig, log *zap.Logger) *Adapter {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = config.DefaultChunkSize
	}
	if cfg.ChunkDelayMs <= 0 {
		cfg.ChunkDelayMs = config.DefaultChunkDelayMs
	}
	if cfg.ReasoningDelayMs < 0 {
		cfg.ReasoningDelayMs = config.DefaultReasoningDelayMs
	}
	return &Adapter{
		chunkSize:      cfg.ChunkSize,
		chunkDelay:     time.Duration(cfg.ChunkDelayMs) * time.Millisecond,
		reasoningDelay: time.Duration(cfg.ReasoningDelayMs) * time.Millisecond,
		log:            log,
	}
}

// Run starts one streaming run: it pulls a single segment from src (falling
// back to OfflineReply) and emits growing partial results until a terminal
// update, after which the channel is closed. Cancel via ctx; cancellation is
// observed before every chunk and interrupts the inter-chunk delay, and the
// final update then carries only the chunks emitted so far.
//
// The consumer must receive until the channel is closed.
func (a *Adapter) Run(ctx context.Context, src Deliverer) <-chan Update {
	out := make(chan Update)
	go a.run(ctx, src, out)
	return out
}

func (a *Adapter) run(ctx context.Context, src Deliverer, out chan<- Update) {
	defer close(out)

	text := OfflineReply
	progress := ""
	if res := src.DeliverNext(ctx); res != nil {
		text = res.Segment
		progress = fmt.Sprintf("reading %d/%d", res.Position+1, res.TotalSegments)
		a.log.Debug("segment delivered",
			zap.Int("position", res.Position),
			zap.Int("total", res.TotalSegments),
			zap.Bool("hasMore", res.HasMore),
		)
		if !a.wait(ctx, a.reasoningDelay) {
			out <- Update{Progress: progress, Status: StatusCancelled}
			return
		}
	}

	var acc strings.Builder
	for _, chunk := range chunkText(text, a.chunkSize) {
		if ctx.Err() != nil {
			out <- Update{Text: acc.String(), Progress: progress, Status: StatusCancelled}
			return
		}
		acc.WriteString(chunk)
		out <- Update{Text: acc.String(), Progress: progress, Status: StatusRunning}
		if !a.wait(ctx, a.chunkDelay) {
			out <- Update{Text: acc.String(), Progress: progress, Status: StatusCancelled}
			return
		}
	}
	out <- Update{Text: acc.String(), Progress: progress, Status: StatusComplete}
}

// wait sleeps for d unless ctx is cancelled first; it reports whether the
// full delay elapsed.
func (a *Adapter) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// chunkText cuts text into chunks of at most size runes.
func chunkText(text string, size int) []string {
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for pos := 0; pos < len(runes); pos += size {
		end := pos + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[pos:end]))
	}
	return chunks
}
