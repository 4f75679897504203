package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/telop-review/internal/review"
	"github.com/nguyentantai21042004/telop-review/internal/telop"
)

// Runtime is the process-wide analysis context. It owns the long-lived
// collaborators, the per-URL result cache and the gate that keeps runs
// from overlapping.
type Runtime interface {
	// Analyze runs the full pipeline for url, or returns the cached result
	// of an earlier successful run. progress may be nil.
	Analyze(ctx context.Context, url string, progress ProgressFunc) (*Result, error)
	Close() error
}

// Result is the outcome of one successful run. It must be treated as
// read-only once returned.
type Result struct {
	URL      string                `json:"url"`
	Voice    []review.VoiceSegment `json:"voice"`
	Telops   []review.TelopEvent   `json:"telops"`
	Buckets  []review.Bucket       `json:"buckets"`
	Stats    telop.Stats           `json:"stats"`
	Duration time.Duration         `json:"duration"`
}
