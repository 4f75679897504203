package pipeline

import "context"

// semaphore bounds the number of runs in flight. Runs share the download
// temp path, so the runtime uses a capacity of one.
type semaphore struct {
	ch chan struct{}
}

// newSemaphore creates a new semaphore with the given capacity
func newSemaphore(capacity int) *semaphore {
	if capacity < 1 {
		capacity = 1
	}
	return &semaphore{
		ch: make(chan struct{}, capacity),
	}
}

// acquire waits for a slot or for ctx to end
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release releases a semaphore slot
func (s *semaphore) release() {
	<-s.ch
}
