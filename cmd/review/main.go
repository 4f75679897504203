package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/pipeline"
	"github.com/nguyentantai21042004/telop-review/internal/server"
	"github.com/nguyentantai21042004/telop-review/internal/watcher"
)

const usage = `Usage: review <command> [flags]

Commands:
  analyze -url <video url>   analyze one video and write its report
  watch                      analyze every *.url file dropped into paths.input
  serve                      expose POST /analyses over HTTP

Common flags:
  -config <path>   YAML config (default config.yaml)
  -env <path>      .env file (default .env)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to the YAML config")
	envPath := fs.String("env", ".env", "path to the .env file")
	url := fs.String("url", "", "video URL to analyze (analyze)")
	withSummary := fs.Bool("summary", true, "add a Gemini digest when API keys are set (analyze)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.Parse(os.Args[2:])

	if err := config.LoadEnv(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Telop Review (%s)", command)
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Transcription backend: %s", cfg.Whisper.Backend)
	log.Info(ctx, "OCR languages: %v, confidence > %.0f, similarity < %.2f, %.1f Hz",
		cfg.OCR.Languages, cfg.Telop.ConfidenceThreshold, cfg.Telop.SimilarityThreshold, cfg.Telop.SampleRateHz)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize: %v", err)
		os.Exit(1)
	}
	defer a.Close()

	switch command {
	case "analyze":
		err = runAnalyze(ctx, a, *url, *withSummary)
	case "watch":
		err = runWatch(ctx, a)
	case "serve":
		err = runServe(ctx, a)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		a.Close()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "%v", err)
		if hint := pipeline.Hint(err); hint != "" {
			log.Error(ctx, "Hint: %s", hint)
		}
		a.Close()
		os.Exit(1)
	}
}

func runAnalyze(ctx context.Context, a *app, url string, withSummary bool) error {
	if url == "" {
		return fmt.Errorf("analyze: -url is required")
	}
	dir, err := a.analyze(ctx, url, withSummary)
	if err != nil {
		return err
	}
	a.log.Info(ctx, "Done. Open %s", dir)
	return nil
}

func runWatch(ctx context.Context, a *app) error {
	w, err := watcher.New(a.cfg.Paths.Input, a.analyzeRequestFile, a.log, a.cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
	a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	a.log.Info(ctx, "Press Ctrl+C to stop")

	return w.Start(ctx)
}

func runServe(ctx context.Context, a *app) error {
	h := server.NewHandler(a.runtime, a.summarizer, a.log)
	return server.Run(ctx, a.cfg.Server.Addr, server.NewRouter(h, a.log, a.metrics), a.log)
}
