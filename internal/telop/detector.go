package telop

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/media"
	"github.com/nguyentantai21042004/telop-review/internal/ocr"
	"github.com/nguyentantai21042004/telop-review/internal/review"
)

// Detector decides whether the caption in a sampled frame is new.
// It keeps the last emitted text block for one video and must not be
// shared between runs.
type Detector struct {
	recognizer ocr.Recognizer
	cfg        config.TelopConfig
	logger     logger.Logger
	last       string
}

// NewDetector creates a Detector with an empty last block.
func NewDetector(rec ocr.Recognizer, cfg config.TelopConfig, log logger.Logger) *Detector {
	return &Detector{
		recognizer: rec,
		cfg:        cfg,
		logger:     log,
	}
}

// Last returns the last emitted text block.
func (d *Detector) Last() string {
	return d.last
}

// Observe runs OCR over the caption region of f and returns a TelopEvent
// when the recognized block is novel. On error the last block is unchanged.
func (d *Detector) Observe(ctx context.Context, f media.Frame) (review.TelopEvent, bool, error) {
	region, err := media.CaptionRegion(f.Image)
	if err != nil {
		return review.TelopEvent{}, false, err
	}

	tokens, err := d.recognizer.Recognize(ctx, region)
	if err != nil {
		return review.TelopEvent{}, false, err
	}

	current := TextBlock(tokens, d.cfg.ConfidenceThreshold)
	if !Novel(current, d.last, d.cfg.SimilarityThreshold) {
		return review.TelopEvent{}, false, nil
	}

	still, err := media.EncodeJPEG(f.Image)
	if err != nil {
		return review.TelopEvent{}, false, fmt.Errorf("frame %d: %w", f.Index, err)
	}

	d.logger.Debug(ctx, "Telop at %.2fs: %q", f.Timestamp, current)
	d.last = current

	return review.TelopEvent{
		Timestamp: f.Timestamp,
		Image:     still,
		Text:      current,
	}, true, nil
}

// TextBlock concatenates, without a separator, the trimmed text of tokens
// whose confidence is strictly above minConfidence.
func TextBlock(tokens []ocr.Token, minConfidence float64) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Confidence <= minConfidence {
			continue
		}
		b.WriteString(strings.TrimSpace(t.Text))
	}
	return b.String()
}

// Novel reports whether current should be emitted after last.
func Novel(current, last string, threshold float64) bool {
	if current == "" {
		return false
	}
	if last == "" {
		return true
	}
	return Similarity(current, last) < threshold
}

// Similarity is the normalized edit-distance similarity of a and b,
// 1 - distance/max(len), counted in runes. Two empty strings are identical.
func Similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
