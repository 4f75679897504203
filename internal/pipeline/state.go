package pipeline

// State is a step of the analysis state machine.
type State int

const (
	Idle State = iota
	Downloading
	Transcribing
	DetectingTelops
	Cleanup
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Downloading:
		return "downloading"
	case Transcribing:
		return "transcribing"
	case DetectingTelops:
		return "detecting telops"
	case Cleanup:
		return "cleanup"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
