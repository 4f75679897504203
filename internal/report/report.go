// Package report renders a fused review timeline for offline reading.
package report

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nguyentantai21042004/telop-review/internal/review"
)

// Document is everything a report shows for one video.
type Document struct {
	URL         string
	Buckets     []review.Bucket
	Summary     string
	GeneratedAt time.Time
}

var reUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Slug derives a file-system safe name for a video URL, preferring the
// platform video id.
func Slug(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return sanitize(v)
		}
		if strings.HasSuffix(u.Host, "youtu.be") {
			if id := strings.Trim(u.Path, "/"); id != "" {
				return sanitize(id)
			}
		}
		if s := sanitize(u.Host + u.Path); s != "" {
			return s
		}
	}
	if s := sanitize(rawURL); s != "" {
		return s
	}
	return "video"
}

func sanitize(s string) string {
	s = strings.Trim(reUnsafe.ReplaceAllString(s, "_"), "_")
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}

// stillName is the file name of the i-th telop still in a bucket.
func stillName(key, i int) string {
	return fmt.Sprintf("telop_%06d_%d.jpg", key, i+1)
}

func writeStill(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write telop still: %w", err)
	}
	return path, nil
}

// heading returns the bucket label and the side it anchors to.
func heading(doc Document, b review.Bucket) (label, link string, anchor review.Kind) {
	return review.FormatClock(b.Key), review.DeepLink(doc.URL, b.Key), b.Anchor()
}
