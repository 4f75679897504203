// Package tesseract implements ocr.Recognizer on top of Tesseract.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/ocr"
)

type implRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a Recognizer configured with the language hint and page
// segmentation mode from cfg. The caller must Close it.
func New(cfg config.OCRConfig) (ocr.Recognizer, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(cfg.Languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("set ocr language: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}

	return &implRecognizer{client: client}, nil
}

// Recognize runs word-level recognition. The gosseract client is not safe
// for concurrent use, so calls are serialized.
func (r *implRecognizer) Recognize(ctx context.Context, img image.Image) ([]ocr.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode region: %v", ocr.ErrEngine, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: set image: %v", ocr.ErrEngine, err)
	}

	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("%w: bounding boxes: %v", ocr.ErrEngine, err)
	}

	tokens := make([]ocr.Token, 0, len(boxes))
	for _, box := range boxes {
		tokens = append(tokens, ocr.Token{Text: box.Word, Confidence: box.Confidence})
	}
	return tokens, nil
}

func (r *implRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}
