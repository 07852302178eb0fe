// Package segmenter splits resource text into fixed-size segments.
package segmenter

import (
	"context"
	"fmt"

	"github.com/textshelf/textshelf/internal/errs"
)

const (
	// syncFactor: inputs up to syncFactor*size characters are split in one pass.
	syncFactor = 10
	// batchSegments is how many segments are produced between context checks
	// on the batched path.
	batchSegments = 100
)

// Split cuts content into contiguous, non-overlapping segments of at most
// size characters each; the final segment may be shorter. Empty content
// yields nil. size must be positive.
func Split(content string, size int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("segment size %d: %w", size, errs.ErrInvalidInput)
	}
	return split([]rune(content), size), nil
}

// SplitContext behaves exactly like Split but works in bounded batches for
// large inputs, checking ctx between batches so a caller can abandon the
// work. The result is identical to Split for any input.
func SplitContext(ctx context.Context, content string, size int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("segment size %d: %w", size, errs.ErrInvalidInput)
	}
	runes := []rune(content)
	if len(runes) <= size*syncFactor {
		return split(runes, size), nil
	}

	segments := make([]string, 0, (len(runes)+size-1)/size)
	pos := 0
	for pos < len(runes) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batchEnd := pos + size*batchSegments
		if batchEnd > len(runes) {
			batchEnd = len(runes)
		}
		for pos < batchEnd {
			end := pos + size
			if end > len(runes) {
				end = len(runes)
			}
			segments = append(segments, string(runes[pos:end]))
			pos = end
		}
	}
	return segments, nil
}

func split(runes []rune, size int) []string {
	if len(runes) == 0 {
		return nil
	}
	segments := make([]string, 0, (len(runes)+size-1)/size)
	for pos := 0; pos < len(runes); pos += size {
		end := pos + size
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, string(runes[pos:end]))
	}
	return segments
}
