package ocr

import (
	"context"
	"errors"
	"image"
)

// Token is one recognized word with its confidence on a 0-100 scale.
type Token struct {
	Text       string
	Confidence float64
}

// Recognizer detects text in an image region. Tokens are returned in
// reading order.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]Token, error)
	Close() error
}

// ErrEngine reports a failure inside the OCR engine for one call.
var ErrEngine = errors.New("ocr engine error")
