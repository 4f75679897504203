package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/download"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/media/capture"
	"github.com/nguyentantai21042004/telop-review/internal/metrics"
	"github.com/nguyentantai21042004/telop-review/internal/ocr/tesseract"
	"github.com/nguyentantai21042004/telop-review/internal/pipeline"
	"github.com/nguyentantai21042004/telop-review/internal/report"
	"github.com/nguyentantai21042004/telop-review/internal/summarizer"
	"github.com/nguyentantai21042004/telop-review/internal/transcribe"
	"github.com/nguyentantai21042004/telop-review/internal/watcher"
	"github.com/nguyentantai21042004/telop-review/pkg/executor"
)

// app holds the process-wide objects shared by every subcommand.
type app struct {
	cfg        *config.Config
	log        logger.Logger
	runtime    pipeline.Runtime
	summarizer summarizer.Summarizer
	metrics    *metrics.Metrics
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	useCookie, err := cfg.BootstrapCookie()
	if err != nil {
		return nil, fmt.Errorf("bootstrap cookie: %w", err)
	}
	if useCookie {
		log.Info(ctx, "Cookie file found: %s", cfg.Download.CookieFile)
	} else {
		log.Warn(ctx, "No cookie configured, only public videos can be analyzed (set %s)", config.EnvCookie)
	}

	exec := executor.New()

	var backend transcribe.Backend
	switch cfg.Whisper.Backend {
	case config.BackendOpenAI:
		backend = transcribe.NewOpenAI(cfg.Whisper, log)
	default:
		backend = transcribe.NewWhisperCPP(cfg.Whisper, exec, log)
	}

	recognizer, err := tesseract.New(cfg.OCR)
	if err != nil {
		return nil, fmt.Errorf("init ocr: %w", err)
	}

	met := metrics.New()
	rt := pipeline.New(cfg, pipeline.Deps{
		Downloader:  download.New(cfg.Download, useCookie, exec, log),
		Transcriber: backend,
		OpenMedia:   capture.Open,
		Recognizer:  recognizer,
		Metrics:     met,
	}, log)

	var sum summarizer.Summarizer
	if len(cfg.Gemini.APIKeys) > 0 {
		sum = summarizer.New(cfg.Gemini, log)
	}

	return &app{
		cfg:        cfg,
		log:        log,
		runtime:    rt,
		summarizer: sum,
		metrics:    met,
	}, nil
}

func (a *app) Close() error {
	return a.runtime.Close()
}

// analyze runs one URL and writes its reports. It returns the report directory.
func (a *app) analyze(ctx context.Context, url string, withSummary bool) (string, error) {
	res, err := a.runtime.Analyze(ctx, url, func(p pipeline.Progress) {
		a.log.Info(ctx, "[%3d%%] %s", p.Percent, p.Label)
	})
	if err != nil {
		return "", err
	}

	doc := report.Document{
		URL:         res.URL,
		Buckets:     res.Buckets,
		GeneratedAt: time.Now(),
	}
	if withSummary && a.summarizer != nil {
		summary, err := a.summarizer.Summarize(ctx, res.URL, res.Buckets)
		if err != nil {
			a.log.Warn(ctx, "Summary unavailable: %v", err)
		}
		doc.Summary = summary
	}

	dir := filepath.Join(a.cfg.Paths.Output, report.Slug(res.URL))
	mdPath, err := report.WriteMarkdown(dir, doc)
	if err != nil {
		return "", fmt.Errorf("write markdown report: %w", err)
	}
	if err := report.WriteDocx(filepath.Join(dir, "report.docx"), doc); err != nil {
		a.log.Warn(ctx, "Failed to write docx report: %v", err)
	}

	a.log.Info(ctx, "Report written: %s", mdPath)
	return dir, nil
}

// analyzeRequestFile handles one drop-folder request file.
func (a *app) analyzeRequestFile(ctx context.Context, path string) error {
	urls, err := watcher.ReadRequests(path)
	if err != nil {
		return err
	}

	var errs []error
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := a.analyze(ctx, url, true); err != nil {
			if hint := pipeline.Hint(err); hint != "" {
				a.log.Warn(ctx, "%s: %s", url, hint)
			}
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Download.TempDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
