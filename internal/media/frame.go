package media

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
)

const jpegQuality = 90

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CaptionRegion returns the bottom half of img at full width,
// rows height/2 through height.
func CaptionRegion(img image.Image) (image.Image, error) {
	b := img.Bounds()
	if b.Dy() <= 0 || b.Dx() <= 0 {
		return nil, ErrEmptyFrame
	}

	r := image.Rect(b.Min.X, b.Min.Y+b.Dy()/2, b.Max.X, b.Max.Y)
	if s, ok := img.(subImager); ok {
		return s.SubImage(r), nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, nil
}

// EncodeJPEG encodes a still for reports and API payloads.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
