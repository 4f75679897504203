package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/pkg/executor"
)

type whisperCPPBackend struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisperCPP creates a Backend that shells out to ffmpeg and whisper.cpp
func NewWhisperCPP(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Backend {
	return &whisperCPPBackend{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// Transcribe extracts a 16kHz mono WAV, runs whisper.cpp with SRT output
// and parses the result. Intermediate files are removed before returning.
func (w *whisperCPPBackend) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	audioPath, err := w.extractAudio(ctx, mediaPath)
	if err != nil {
		return nil, err
	}
	defer w.cleanupTempFile(ctx, audioPath)

	srtPath, err := w.transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	defer w.cleanupTempFile(ctx, srtPath)

	content, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read srt: %v", ErrModel, err)
	}

	segs, err := ParseSRT(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse srt: %v", ErrModel, err)
	}
	return segs, nil
}

// extractAudio converts the media audio track to 16kHz mono WAV for whisper.cpp
func (w *whisperCPPBackend) extractAudio(ctx context.Context, mediaPath string) (string, error) {
	audioPath := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + "_audio.wav"

	w.logger.Info(ctx, "Extracting audio: %s", mediaPath)

	args := []string{
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := w.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: ffmpeg extract audio: %v", ErrUnsupportedAudio, err)
	}

	return audioPath, nil
}

// transcribe runs whisper.cpp and returns the path of the written SRT file
func (w *whisperCPPBackend) transcribe(ctx context.Context, audioPath string) (string, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, audioPath)

	// -osrt: SRT output next to the prefix
	// -l: language, "auto" lets whisper detect it
	// -ml/-mc 0: no segment length or context limit
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-osrt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-ml", "0",
		"-mc", "0",
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: whisper: %v", ErrModel, err)
	}

	srtPath := outputPrefix + ".srt"
	w.logger.Info(ctx, "Transcription completed: %s", srtPath)
	return srtPath, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (w *whisperCPPBackend) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	}
}
