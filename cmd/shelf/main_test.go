package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/textshelf/textshelf/internal/config"
	"github.com/textshelf/textshelf/internal/delivery"
	"github.com/textshelf/textshelf/internal/model"
	"github.com/textshelf/textshelf/internal/stream"
)

type oneSegmentStore struct{ served bool }

func (s *oneSegmentStore) AdvancePosition(context.Context, uuid.UUID) (*model.SegmentResult, error) {
	if s.served {
		return nil, nil
	}
	s.served = true
	return &model.SegmentResult{Segment: "hello shelf", Position: 0, TotalSegments: 1}, nil
}

type staticDir struct{ sums []model.ResourceSummary }

func (d staticDir) List(context.Context) []model.ResourceSummary { return d.sums }

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func Test_streamOne_PrintsSegment(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	dir := staticDir{sums: []model.ResourceSummary{{ID: id, SegmentCount: 1}}}
	sess := delivery.NewSession(&oneSegmentStore{}, dir, zap.NewNop())
	adapter := stream.NewAdapter(config.StreamingConfig{ChunkSize: 4, ChunkDelayMs: 1, ReasoningDelayMs: 1}, zap.NewNop())

	out := captureStdout(t, func() {
		if got := streamOne(context.Background(), adapter, sess); got != stream.StatusComplete {
			t.Errorf("status=%q, want complete", got)
		}
	})
	if !strings.Contains(out, "[reading 1/1]") {
		t.Fatalf("missing progress annotation: %q", out)
	}
	if !strings.Contains(out, "hello shelf") {
		t.Fatalf("missing streamed text: %q", out)
	}
}

func Test_streamOne_FallbackWhenEmpty(t *testing.T) {
	sess := delivery.NewSession(&oneSegmentStore{served: true}, staticDir{}, zap.NewNop())
	adapter := stream.NewAdapter(config.StreamingConfig{ChunkSize: 1000, ChunkDelayMs: 1}, zap.NewNop())

	out := captureStdout(t, func() {
		_ = streamOne(context.Background(), adapter, sess)
	})
	if strings.Contains(out, "[reading") {
		t.Fatalf("fallback must not carry a progress annotation: %q", out)
	}
	if !strings.Contains(out, stream.OfflineReply) {
		t.Fatalf("missing fallback text: %q", out)
	}
}
