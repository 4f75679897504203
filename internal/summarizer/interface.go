package summarizer

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/telop-review/internal/review"
)

// Summarizer produces a markdown digest of a fused review timeline.
type Summarizer interface {
	Summarize(ctx context.Context, url string, buckets []review.Bucket) (string, error)
}

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("summarizer disabled: no API keys")
