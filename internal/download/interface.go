package download

import (
	"context"
	"errors"
)

// Downloader fetches a remote video into a local, decodable media file.
type Downloader interface {
	Download(ctx context.Context, url string) (Media, error)
}

// Media is a downloaded file containing both video and audio tracks.
type Media struct {
	Path string
}

var (
	// ErrAuthRequired is returned for private, members-only or age-restricted
	// videos when no valid cookie is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound is returned when the video does not exist or was removed.
	ErrNotFound = errors.New("video not found")

	// ErrNetwork covers every other acquisition failure.
	ErrNetwork = errors.New("network error")
)
