package telop

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/media"
	"github.com/nguyentantai21042004/telop-review/internal/review"
)

// FrameSource is a sequence of sampled frames.
type FrameSource interface {
	Next() (media.Frame, bool, error)
	TotalFrames() int
}

// ProgressFunc receives the decoded frame index and the total frame count
// (0 when unknown) after each sampled frame.
type ProgressFunc func(frameIndex, totalFrames int)

// Stats summarizes one scan.
type Stats struct {
	Sampled int `json:"sampled"`
	Skipped int `json:"skipped"`
	Emitted int `json:"emitted"`
}

// Scan feeds every sampled frame of src to det and collects the emitted
// events in sample order. A frame whose detection fails is logged and
// skipped. Only source errors and cancellation abort the scan.
func Scan(ctx context.Context, src FrameSource, det *Detector, log logger.Logger, progress ProgressFunc) ([]review.TelopEvent, Stats, error) {
	var (
		events []review.TelopEvent
		stats  Stats
	)
	total := src.TotalFrames()

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		f, ok, err := src.Next()
		if err != nil {
			return nil, stats, fmt.Errorf("read frames: %w", err)
		}
		if !ok {
			break
		}
		stats.Sampled++

		ev, novel, err := det.Observe(ctx, f)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			stats.Skipped++
			log.Warn(ctx, "Skipping frame at %.2fs: %v", f.Timestamp, err)
		case novel:
			stats.Emitted++
			events = append(events, ev)
		}

		if progress != nil {
			progress(f.Index, total)
		}
	}

	log.Info(ctx, "Telop scan completed: %d sampled, %d skipped, %d emitted", stats.Sampled, stats.Skipped, stats.Emitted)
	return events, stats, nil
}
