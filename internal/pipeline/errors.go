package pipeline

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/telop-review/internal/download"
)

var (
	// ErrMediaUnavailable reports media that could not be acquired or decoded.
	ErrMediaUnavailable = errors.New("media unavailable")

	// ErrAuthRequired reports content that needs a cookie that is not configured.
	ErrAuthRequired = download.ErrAuthRequired

	// ErrTranscriptionFailed reports a speech-to-text failure.
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// StageError is returned for every fatal failure and names the stage
// in which it happened.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Hint returns user guidance for err, or an empty string.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrAuthRequired):
		return "this video needs a signed-in session: set YOUTUBE_COOKIE or provide download.cookie_file"
	case errors.Is(err, ErrMediaUnavailable):
		return "check that the URL is reachable and points to a single public video"
	default:
		return ""
	}
}
