package pipeline

import "fmt"

// Progress is a coarse observability signal. Percent never decreases
// within one call to Analyze.
type Progress struct {
	State   State
	Percent int
	Label   string
}

// ProgressFunc receives progress updates.
type ProgressFunc func(Progress)

const (
	percentDownloading  = 5
	percentTranscribing = 25
	percentDetecting    = 65
	percentDetectSpan   = 30
	percentDone         = 100
)

type progressReporter struct {
	fn   ProgressFunc
	last int
}

func newProgressReporter(fn ProgressFunc) *progressReporter {
	return &progressReporter{fn: fn}
}

func (p *progressReporter) report(state State, percent int, label string) {
	if percent < p.last {
		percent = p.last
	}
	p.last = percent
	if p.fn != nil {
		p.fn(Progress{State: state, Percent: percent, Label: label})
	}
}

// frame maps telop scan position into the detection span.
func (p *progressReporter) frame(frameIndex, totalFrames int) {
	if totalFrames <= 0 {
		p.report(DetectingTelops, percentDetecting, DetectingTelops.String())
		return
	}
	if frameIndex > totalFrames {
		frameIndex = totalFrames
	}
	p.report(DetectingTelops,
		percentDetecting+percentDetectSpan*frameIndex/totalFrames,
		fmt.Sprintf("%s %d%%", DetectingTelops, 100*frameIndex/totalFrames))
}
