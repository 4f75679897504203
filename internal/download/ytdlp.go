package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/telop-review/pkg/executor"
)

// tempBaseName is shared by every run; callers serialize downloads.
const tempBaseName = "temp_video"

var (
	authMarkers = []string{
		"sign in to confirm",
		"private video",
		"age-restricted",
		"confirm your age",
		"members-only",
		"use --cookies",
		"login required",
	}
	notFoundMarkers = []string{
		"video unavailable",
		"http error 404",
		"does not exist",
		"has been removed",
		"unsupported url",
	}
)

// Download runs yt-dlp and returns the path of the merged mp4 file
func (d *implDownloader) Download(ctx context.Context, url string) (Media, error) {
	if err := os.MkdirAll(d.cfg.TempDir, 0755); err != nil {
		return Media{}, fmt.Errorf("create temp dir: %w", err)
	}

	// A crashed run can leave a previous video under the shared name.
	d.removePartials(ctx)

	d.logger.Info(ctx, "Downloading %s (max %dp, cookie: %v)", url, d.cfg.MaxHeight, d.useCookie)

	out, err := d.executor.Execute(ctx, d.cfg.BinaryPath, d.buildArgs(url)...)
	if err != nil {
		d.removePartials(ctx)
		return Media{}, classify(err)
	}

	path := lastLine(out)
	if path == "" {
		return Media{}, fmt.Errorf("%w: yt-dlp reported no output file", ErrNetwork)
	}
	if _, err := os.Stat(path); err != nil {
		return Media{}, fmt.Errorf("%w: downloaded file missing: %v", ErrNetwork, err)
	}

	d.logger.Info(ctx, "Download completed: %s", path)
	return Media{Path: path}, nil
}

func (d *implDownloader) buildArgs(url string) []string {
	// -f: progressive mp4 capped at the configured height
	// -o: fixed temp name, extension decided by the selected format
	// --print after_move:filepath: final path on stdout once the file is in place
	args := []string{
		"-f", fmt.Sprintf("best[ext=mp4][height<=%d]", d.cfg.MaxHeight),
		"-o", filepath.Join(d.cfg.TempDir, tempBaseName+".%(ext)s"),
		"--no-playlist",
		"--no-progress",
		"--no-simulate",
		"--force-overwrites",
		"--print", "after_move:filepath",
	}
	if d.useCookie {
		args = append(args, "--cookies", d.cfg.CookieFile)
	}
	return append(args, url)
}

// classify maps a yt-dlp failure onto the acquisition error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	detail := err.Error()
	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Stderr != "" {
		detail = cmdErr.Stderr
	}

	lower := strings.ToLower(detail)
	for _, m := range authMarkers {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%w: %s", ErrAuthRequired, firstLine(detail))
		}
	}
	for _, m := range notFoundMarkers {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%w: %s", ErrNotFound, firstLine(detail))
		}
	}
	return fmt.Errorf("%w: %s", ErrNetwork, firstLine(detail))
}

// removePartials deletes anything left under the temp name by an earlier
// or failed run
func (d *implDownloader) removePartials(ctx context.Context) {
	matches, _ := filepath.Glob(filepath.Join(d.cfg.TempDir, tempBaseName+".*"))
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			d.logger.Warn(ctx, "Failed to cleanup partial download %s: %v", m, err)
		}
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
