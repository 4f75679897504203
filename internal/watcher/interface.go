package watcher

import "context"

// Watcher monitors a drop folder for analysis request files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one request file.
type EventHandler func(ctx context.Context, filePath string) error
