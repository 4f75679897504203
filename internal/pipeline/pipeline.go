package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/telop-review/internal/download"
	"github.com/nguyentantai21042004/telop-review/internal/media"
	"github.com/nguyentantai21042004/telop-review/internal/review"
	"github.com/nguyentantai21042004/telop-review/internal/telop"
	"github.com/nguyentantai21042004/telop-review/internal/transcribe"
)

func (r *implRuntime) Analyze(ctx context.Context, url string, progress ProgressFunc) (*Result, error) {
	rep := newProgressReporter(progress)

	if res, ok := r.cache.get(url); ok {
		r.log.Info(ctx, "Serving cached analysis: %s", url)
		r.deps.Metrics.IncCacheHits()
		rep.report(Done, percentDone, Done.String())
		return res, nil
	}

	if err := r.gate.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.gate.release()

	// an identical request may have finished while this one waited
	if res, ok := r.cache.get(url); ok {
		r.deps.Metrics.IncCacheHits()
		rep.report(Done, percentDone, Done.String())
		return res, nil
	}

	res, err := r.run(ctx, url, rep)
	if err != nil {
		return nil, err
	}

	r.cache.put(url, res)
	return res, nil
}

// run executes one analysis. Steps are strictly sequential and the
// downloaded media is removed on every exit path once it exists.
func (r *implRuntime) run(ctx context.Context, url string, rep *progressReporter) (res *Result, err error) {
	startTime := time.Now()

	r.log.Info(ctx, "========================================")
	r.log.Info(ctx, "Starting analysis: %s", url)
	r.log.Info(ctx, "========================================")

	r.deps.Metrics.RunStarted()
	defer func() {
		r.deps.Metrics.RunFinished(time.Since(startTime), err == nil)
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			r.deps.Metrics.IncFailures(stageErr.Stage.String())
			rep.report(Failed, rep.last, stageErr.Error())
			r.log.Error(ctx, "Analysis failed: %v", err)
		}
	}()

	// Step 1: Acquire media
	rep.report(Downloading, percentDownloading, Downloading.String())
	m, err := r.deps.Downloader.Download(ctx, url)
	if err != nil {
		return nil, &StageError{Stage: Downloading, Err: classifyDownload(err)}
	}
	defer func() {
		rep.report(Cleanup, rep.last, Cleanup.String())
		r.cleanupTempFile(ctx, m.Path)
		if err == nil {
			rep.report(Done, percentDone, Done.String())
		}
	}()

	// Step 2: Open the decoder so unreadable media fails before transcription
	sampler, err := media.OpenSampler(r.deps.OpenMedia, m.Path, r.cfg.Telop.SampleRateHz)
	if err != nil {
		return nil, &StageError{Stage: Downloading, Err: fmt.Errorf("%w: %w", ErrMediaUnavailable, err)}
	}
	defer sampler.Close()

	// Step 3: Transcribe the whole audio track
	rep.report(Transcribing, percentTranscribing, Transcribing.String())
	voice, err := transcribe.Extract(ctx, r.deps.Transcriber, m.Path)
	if err != nil {
		return nil, &StageError{Stage: Transcribing, Err: classify(ctx, ErrTranscriptionFailed, err)}
	}
	r.log.Info(ctx, "Transcript ready: %d segments", len(voice))

	// Step 4: Detect telop changes frame by frame
	rep.report(DetectingTelops, percentDetecting, DetectingTelops.String())
	det := telop.NewDetector(r.deps.Recognizer, r.cfg.Telop, r.log)
	telops, stats, err := telop.Scan(ctx, sampler, det, r.log, rep.frame)
	r.deps.Metrics.AddFrames(stats.Sampled, stats.Skipped, stats.Emitted)
	if err != nil {
		return nil, &StageError{Stage: DetectingTelops, Err: classify(ctx, ErrMediaUnavailable, err)}
	}

	res = &Result{
		URL:      url,
		Voice:    voice,
		Telops:   telops,
		Buckets:  review.Fuse(voice, telops),
		Stats:    stats,
		Duration: time.Since(startTime),
	}

	r.log.Info(ctx, "========================================")
	r.log.Info(ctx, "Analysis completed: %d voice segments, %d telops, %d buckets", len(voice), len(telops), len(res.Buckets))
	r.log.Info(ctx, "Processing time: %s", res.Duration)
	r.log.Info(ctx, "========================================")

	return res, nil
}

// classifyDownload maps acquisition failures onto the pipeline taxonomy.
func classifyDownload(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, download.ErrAuthRequired):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrMediaUnavailable, err)
	}
}

// classify tags err with sentinel unless the run was cancelled.
func classify(ctx context.Context, sentinel, err error) error {
	if ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
