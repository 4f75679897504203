package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/telop-review/internal/review"
)

const summaryPrompt = `You are assisting a content reviewer who skims videos instead of watching them.
Below is a timeline of one video. VOICE lines are the spoken transcript and
TELOP lines are on-screen captions, each prefixed with the time it appears.

Write a concise review digest in markdown:
- Start with a one-sentence overview of the topic
- List the main sections in order, citing their start time as [H:MM:SS]
- Point out where the captions add information the speech does not
- Keep proper nouns and on-screen terms in their original language

Timeline:
---
%s
---`

// Summarize renders the timeline and asks Gemini for a digest.
func (s *implSummarizer) Summarize(ctx context.Context, url string, buckets []review.Bucket) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", ErrDisabled
	}

	s.logger.Info(ctx, "Summarizing %d buckets: %s", len(buckets), url)

	summary, err := s.callGemini(ctx, Timeline(buckets))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// Timeline renders buckets as plain text, one event per line.
func Timeline(buckets []review.Bucket) string {
	var b strings.Builder
	for _, bucket := range buckets {
		clock := review.FormatClock(bucket.Key)
		for _, v := range bucket.Voice {
			fmt.Fprintf(&b, "[%s] VOICE: %s\n", clock, v.Text)
		}
		for _, t := range bucket.Telop {
			fmt.Fprintf(&b, "[%s] TELOP: %s\n", clock, t.Text)
		}
	}
	return b.String()
}

// callGemini sends the timeline to Gemini and returns the summary text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, timeline string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, timeline)

	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		text, err := s.generate(ctx, key, s.model, prompt)
		if err != nil {
			if isRateLimited(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", err
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func generateGemini(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
