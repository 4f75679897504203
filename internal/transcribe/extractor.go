package transcribe

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/telop-review/internal/review"
)

// Extract submits the whole media file to the backend once and returns
// trimmed voice segments in backend order.
func Extract(ctx context.Context, backend Backend, mediaPath string) ([]review.VoiceSegment, error) {
	segs, err := backend.Transcribe(ctx, mediaPath)
	if err != nil {
		return nil, err
	}

	voice := make([]review.VoiceSegment, 0, len(segs))
	for _, s := range segs {
		voice = append(voice, review.VoiceSegment{
			Timestamp: s.Start,
			Text:      strings.TrimSpace(s.Text),
		})
	}
	return voice, nil
}
