package media

import (
	"errors"
	"image"
)

// Decoder is a forward-only video frame source.
type Decoder interface {
	// FPS returns the container frame rate.
	FPS() float64
	// FrameCount returns the number of frames, or 0 when unknown.
	FrameCount() int
	// Advance decodes the next frame and reports false at end of stream.
	Advance() bool
	// Image converts the most recently decoded frame.
	Image() (image.Image, error)
	Close() error
}

// OpenFunc opens a decoder for a local media file.
type OpenFunc func(path string) (Decoder, error)

// Frame is one sampled video frame.
type Frame struct {
	Index     int
	Timestamp float64
	Image     image.Image
}

var (
	// ErrOpen reports a media file that could not be opened for decoding.
	ErrOpen = errors.New("cannot open media")

	// ErrFrameRate reports a container without a usable frame rate.
	ErrFrameRate = errors.New("invalid frame rate")

	// ErrEmptyFrame reports a frame with no rows.
	ErrEmptyFrame = errors.New("empty frame")
)
