package transcribe

import (
	"context"
	"errors"
)

// Segment is a raw transcription segment as returned by a backend.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Backend turns the audio track of a media file into ordered segments.
type Backend interface {
	Transcribe(ctx context.Context, mediaPath string) ([]Segment, error)
}

var (
	// ErrModel reports a failure inside the speech-to-text model.
	ErrModel = errors.New("transcription model error")

	// ErrUnsupportedAudio reports media whose audio could not be decoded.
	ErrUnsupportedAudio = errors.New("unsupported audio")
)
