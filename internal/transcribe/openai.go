package transcribe

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
)

// audioTranscriber is the subset of the go-openai client used here.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type openAIBackend struct {
	cfg    config.WhisperConfig
	client audioTranscriber
	logger logger.Logger
}

// NewOpenAI creates a Backend for the OpenAI audio transcription endpoint
// or any compatible server set through base_url.
func NewOpenAI(cfg config.WhisperConfig, log logger.Logger) Backend {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIBackend{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: log,
	}
}

func (o *openAIBackend) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	req := openai.AudioRequest{
		Model:    o.cfg.Model,
		FilePath: mediaPath,
		Prompt:   o.cfg.Prompt,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if o.cfg.Language != "" && o.cfg.Language != "auto" {
		req.Language = o.cfg.Language
	}

	o.logger.Info(ctx, "Submitting %s to %s", mediaPath, o.cfg.Model)

	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 400 {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}

	segs := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segs = append(segs, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}

	o.logger.Info(ctx, "Transcription completed: %d segments (%s)", len(segs), resp.Language)
	return segs, nil
}
