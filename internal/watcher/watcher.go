package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/telop-review/internal/logger"
)

// RequestExt is the extension of request files picked up by the watcher.
const RequestExt = ".url"

// Suffixes appended to request files once handled.
const (
	doneSuffix   = ".done"
	failedSuffix = ".failed"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settleDelay   time.Duration
	wg            sync.WaitGroup
}

// Start handles request files already in the folder, then every new one,
// until ctx is cancelled. It returns only after every running handler has
// finished.
func (w *implWatcher) Start(ctx context.Context) error {
	defer w.wg.Wait()

	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Drop *%s files with one video URL per line", RequestExt)

	pending, err := w.pendingRequests()
	if err != nil {
		w.logger.Warn(ctx, "Failed to list pending requests: %v", err)
	}
	for _, path := range pending {
		if err := w.dispatch(ctx, path); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing analyses to complete...")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isRequestFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-request file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New request detected: %s", event.Name)

			// Small delay to ensure file is fully written
			time.Sleep(w.settleDelay)

			if err := w.dispatch(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// dispatch runs the handler in a goroutine once a slot is free, then marks
// the request file done or failed. A request interrupted by cancellation is
// left in place and picked up again on the next start.
func (w *implWatcher) dispatch(ctx context.Context, filePath string) error {
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		suffix := doneSuffix
		if err := w.handler(ctx, filePath); err != nil {
			if errors.Is(err, context.Canceled) {
				w.logger.Warn(ctx, "Interrupted %s, leaving it queued", filePath)
				return
			}
			w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
			suffix = failedSuffix
		}
		if err := os.Rename(filePath, filePath+suffix); err != nil {
			w.logger.Warn(ctx, "Failed to mark request %s: %v", filePath, err)
		}
	}()
	return nil
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) pendingRequests() ([]string, error) {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isRequestFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(w.inputDir, e.Name()))
	}

	sort.Strings(files)
	return files, nil
}

// isRequestFile checks for the request extension, ignoring hidden files
func isRequestFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.ToLower(filepath.Ext(name)) == RequestExt
}

// ReadRequests returns the URLs listed in a request file, one per line.
// Blank lines and lines starting with '#' are skipped.
func ReadRequests(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}
