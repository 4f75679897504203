package pipeline

import (
	"context"
	"errors"
	"os"
)

// cleanupTempFile removes a temporary file, logs warning if fails
func (r *implRuntime) cleanupTempFile(ctx context.Context, filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.log.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		r.log.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
