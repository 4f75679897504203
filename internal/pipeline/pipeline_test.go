package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/download"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/media"
	"github.com/nguyentantai21042004/telop-review/internal/metrics"
	"github.com/nguyentantai21042004/telop-review/internal/ocr"
	"github.com/nguyentantai21042004/telop-review/internal/review"
	"github.com/nguyentantai21042004/telop-review/internal/transcribe"
)

type fakeDownloader struct {
	dir      string
	err      error
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	paths    []string
	mu       sync.Mutex
}

func (f *fakeDownloader) Download(ctx context.Context, url string) (download.Media, error) {
	n := f.calls.Add(1)
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	if cur > f.maxSeen.Load() {
		f.maxSeen.Store(cur)
	}
	time.Sleep(5 * time.Millisecond)

	if f.err != nil {
		return download.Media{}, f.err
	}
	path := filepath.Join(f.dir, fmt.Sprintf("temp_video_%d.mp4", n))
	if err := os.WriteFile(path, []byte("mp4"), 0644); err != nil {
		return download.Media{}, err
	}
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	return download.Media{Path: path}, nil
}

type fakeTranscriber struct {
	segs []transcribe.Segment
	err  error
}

func (f fakeTranscriber) Transcribe(ctx context.Context, mediaPath string) ([]transcribe.Segment, error) {
	return f.segs, f.err
}

type fakeDecoder struct {
	fps      float64
	frames   int
	pos      int
	imageErr error
}

func (d *fakeDecoder) FPS() float64    { return d.fps }
func (d *fakeDecoder) FrameCount() int { return d.frames }
func (d *fakeDecoder) Close() error    { return nil }

func (d *fakeDecoder) Advance() bool {
	if d.pos >= d.frames {
		return false
	}
	d.pos++
	return true
}

func (d *fakeDecoder) Image() (image.Image, error) {
	if d.imageErr != nil {
		return nil, d.imageErr
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

// captionRecognizer returns a caption chosen by call number.
type captionRecognizer struct {
	captions []string
	calls    int
}

func (c *captionRecognizer) Recognize(ctx context.Context, img image.Image) ([]ocr.Token, error) {
	text := c.captions[c.calls%len(c.captions)]
	c.calls++
	if text == "!" {
		return nil, ocr.ErrEngine
	}
	return []ocr.Token{{Text: text, Confidence: 90}}, nil
}

func (c *captionRecognizer) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Telop: config.TelopConfig{
			ConfidenceThreshold: 60,
			SimilarityThreshold: 0.9,
			SampleRateHz:        1,
		},
		Performance: config.PerformanceConfig{MaxConcurrent: 1},
	}
}

type harness struct {
	downloader *fakeDownloader
	transcribe fakeTranscriber
	decoder    func() *fakeDecoder
	openErr    error
	recognizer *captionRecognizer
}

func newHarness(t *testing.T) *harness {
	return &harness{
		downloader: &fakeDownloader{dir: t.TempDir()},
		transcribe: fakeTranscriber{segs: []transcribe.Segment{
			{Start: 0.4, Text: " intro "},
			{Start: 2.2, Text: "second"},
		}},
		decoder: func() *fakeDecoder {
			return &fakeDecoder{fps: 2, frames: 8}
		},
		recognizer: &captionRecognizer{captions: []string{"OPENING", "OPENING", "CHAPTER ONE", "CHAPTER ONE"}},
	}
}

func (h *harness) runtime(m *metrics.Metrics) Runtime {
	open := func(path string) (media.Decoder, error) {
		if h.openErr != nil {
			return nil, h.openErr
		}
		return h.decoder(), nil
	}
	return New(testConfig(), Deps{
		Downloader:  h.downloader,
		Transcriber: h.transcribe,
		OpenMedia:   open,
		Recognizer:  h.recognizer,
		Metrics:     m,
	}, logger.Discard())
}

func TestAnalyze(t *testing.T) {
	h := newHarness(t)
	rt := h.runtime(metrics.New())

	var updates []Progress
	res, err := rt.Analyze(context.Background(), "https://www.youtube.com/watch?v=abc&list=xyz", func(p Progress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(res.Voice) != 2 || res.Voice[0].Text != "intro" {
		t.Errorf("Voice = %+v", res.Voice)
	}
	// samples at 0s,1s,2s,3s; captions change at 0s and 2s
	if len(res.Telops) != 2 || res.Telops[0].Timestamp != 0 || res.Telops[1].Timestamp != 2 {
		t.Errorf("Telops = %+v", res.Telops)
	}
	if len(res.Buckets) != 2 || res.Buckets[0].Key != 0 || res.Buckets[1].Key != 2 {
		t.Fatalf("Buckets = %+v", res.Buckets)
	}
	if res.Buckets[1].Anchor() != review.KindVoice {
		t.Errorf("bucket 2 anchor = %v, want voice", res.Buckets[1].Anchor())
	}

	for _, p := range h.downloader.paths {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("media %s still exists after run", p)
		}
	}

	last := 0
	for _, p := range updates {
		if p.Percent < last {
			t.Errorf("progress went backwards: %d after %d (%s)", p.Percent, last, p.Label)
		}
		last = p.Percent
	}
	final := updates[len(updates)-1]
	if final.State != Done || final.Percent != 100 {
		t.Errorf("final progress = %+v, want done at 100", final)
	}
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(h *harness)
		stage     State
		want      error
		ocrCalled bool
	}{
		{
			name:  "auth required",
			setup: func(h *harness) { h.downloader.err = download.ErrAuthRequired },
			stage: Downloading,
			want:  ErrAuthRequired,
		},
		{
			name:  "video not found",
			setup: func(h *harness) { h.downloader.err = download.ErrNotFound },
			stage: Downloading,
			want:  ErrMediaUnavailable,
		},
		{
			name:  "undecodable media",
			setup: func(h *harness) { h.openErr = errors.New("no video stream") },
			stage: Downloading,
			want:  ErrMediaUnavailable,
		},
		{
			name:  "zero frame rate",
			setup: func(h *harness) { h.decoder = func() *fakeDecoder { return &fakeDecoder{} } },
			stage: Downloading,
			want:  ErrMediaUnavailable,
		},
		{
			name:  "transcription error",
			setup: func(h *harness) { h.transcribe.err = transcribe.ErrModel },
			stage: Transcribing,
			want:  ErrTranscriptionFailed,
		},
		{
			name: "frame decode error",
			setup: func(h *harness) {
				h.decoder = func() *fakeDecoder {
					return &fakeDecoder{fps: 2, frames: 4, imageErr: errors.New("bad mat")}
				}
			},
			stage: DetectingTelops,
			want:  ErrMediaUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			var final Progress
			res, err := h.runtime(nil).Analyze(context.Background(), "https://example.com/v", func(p Progress) {
				final = p
			})
			if res != nil {
				t.Errorf("Analyze() returned partial result %+v", res)
			}

			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				t.Fatalf("Analyze() error = %v, want *StageError", err)
			}
			if stageErr.Stage != tt.stage {
				t.Errorf("Stage = %v, want %v", stageErr.Stage, tt.stage)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Analyze() error = %v, want %v", err, tt.want)
			}
			if final.State != Failed {
				t.Errorf("final progress state = %v, want failed", final.State)
			}

			for _, p := range h.downloader.paths {
				if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
					t.Errorf("media %s still exists after failure", p)
				}
			}
		})
	}
}

func TestAnalyzeTranscriptionFailureSkipsTelops(t *testing.T) {
	h := newHarness(t)
	h.transcribe.err = transcribe.ErrUnsupportedAudio

	if _, err := h.runtime(nil).Analyze(context.Background(), "u", nil); err == nil {
		t.Fatal("Analyze() error = nil")
	}
	if h.recognizer.calls != 0 {
		t.Errorf("OCR ran %d times after transcription failed", h.recognizer.calls)
	}
}

func TestAnalyzeOCRFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.recognizer.captions = []string{"A CAPTION", "!", "A CAPTION", "ANOTHER ONE"}

	res, err := h.runtime(nil).Analyze(context.Background(), "u", nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Stats.Skipped != 1 || len(res.Telops) != 2 {
		t.Errorf("Stats = %+v, telops = %d", res.Stats, len(res.Telops))
	}
}

func TestAnalyzeCached(t *testing.T) {
	h := newHarness(t)
	rt := h.runtime(nil)

	first, err := rt.Analyze(context.Background(), "https://example.com/v", nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var final Progress
	second, err := rt.Analyze(context.Background(), "https://example.com/v", func(p Progress) { final = p })
	if err != nil {
		t.Fatalf("second Analyze() error = %v", err)
	}
	if first != second {
		t.Error("second Analyze() did not return the cached result")
	}
	if h.downloader.calls.Load() != 1 {
		t.Errorf("downloads = %d, want 1", h.downloader.calls.Load())
	}
	if final.Percent != 100 {
		t.Errorf("cached progress = %+v, want 100", final)
	}
}

func TestAnalyzeFailureNotCached(t *testing.T) {
	h := newHarness(t)
	h.downloader.err = download.ErrNetwork
	rt := h.runtime(nil)

	rt.Analyze(context.Background(), "u", nil)
	rt.Analyze(context.Background(), "u", nil)

	if h.downloader.calls.Load() != 2 {
		t.Errorf("downloads = %d, want 2", h.downloader.calls.Load())
	}
}

func TestAnalyzeSerialized(t *testing.T) {
	h := newHarness(t)
	// the shared recognizer fake is not goroutine safe; a race here means
	// runs overlapped
	rt := h.runtime(nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := rt.Analyze(context.Background(), fmt.Sprintf("https://example.com/%d", i), nil); err != nil {
				t.Errorf("Analyze(%d) error = %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if got := h.downloader.maxSeen.Load(); got != 1 {
		t.Errorf("max concurrent downloads = %d, want 1", got)
	}
}

func TestAnalyzeCancelledWhileWaiting(t *testing.T) {
	h := newHarness(t)
	rt := h.runtime(nil).(*implRuntime)

	if err := rt.gate.acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer rt.gate.release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := rt.Analyze(ctx, "u", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Analyze() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestHint(t *testing.T) {
	err := &StageError{Stage: Downloading, Err: download.ErrAuthRequired}
	if Hint(err) == "" {
		t.Error("Hint() is empty for auth failures")
	}
	if Hint(errors.New("other")) != "" {
		t.Error("Hint() is not empty for unclassified errors")
	}
	if got := err.Error(); got != "downloading failed: authentication required" {
		t.Errorf("Error() = %q", got)
	}
}
