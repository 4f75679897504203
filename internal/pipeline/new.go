package pipeline

import (
	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/download"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/media"
	"github.com/nguyentantai21042004/telop-review/internal/metrics"
	"github.com/nguyentantai21042004/telop-review/internal/ocr"
	"github.com/nguyentantai21042004/telop-review/internal/transcribe"
)

// Deps are the collaborators a Runtime drives. Metrics may be nil.
type Deps struct {
	Downloader  download.Downloader
	Transcriber transcribe.Backend
	OpenMedia   media.OpenFunc
	Recognizer  ocr.Recognizer
	Metrics     *metrics.Metrics
}

type implRuntime struct {
	cfg   *config.Config
	deps  Deps
	log   logger.Logger
	cache *resultCache
	gate  *semaphore
}

// New creates a Runtime. It is meant to be built once at startup and
// shared for the life of the process.
func New(cfg *config.Config, deps Deps, log logger.Logger) Runtime {
	return &implRuntime{
		cfg:   cfg,
		deps:  deps,
		log:   log,
		cache: newResultCache(),
		gate:  newSemaphore(cfg.Performance.MaxConcurrent),
	}
}

// Close releases the OCR engine.
func (r *implRuntime) Close() error {
	if r.deps.Recognizer == nil {
		return nil
	}
	return r.deps.Recognizer.Close()
}
