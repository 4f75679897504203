package summarizer

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
)

// generateFunc sends one prompt with one API key.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type implSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	logger     logger.Logger
	model      string
	generate   generateFunc
}

// New creates a Summarizer that rotates through the configured Gemini API keys.
func New(cfg config.GeminiConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys:  cfg.APIKeys,
		logger:   log,
		model:    cfg.Model,
		generate: generateGemini,
	}
}
