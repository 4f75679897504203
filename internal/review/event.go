// Package review fuses the transcript and telop streams of one video into
// time buckets for a human reviewer.
package review

// VoiceSegment is one transcribed utterance.
type VoiceSegment struct {
	Timestamp float64 `json:"timestamp"`
	Text      string  `json:"text"`
}

// TelopEvent is one detected caption change. Image is the JPEG-encoded
// sampled frame; encoding/json renders it base64.
type TelopEvent struct {
	Timestamp float64 `json:"timestamp"`
	Image     []byte  `json:"image"`
	Text      string  `json:"text"`
}

// Kind discriminates the two Event variants.
type Kind int

const (
	KindVoice Kind = iota
	KindTelop
)

func (k Kind) String() string {
	switch k {
	case KindVoice:
		return "voice"
	case KindTelop:
		return "telop"
	default:
		return "unknown"
	}
}

// Event is the tagged union of a VoiceSegment and a TelopEvent.
// Exactly one of Voice and Telop is set, as indicated by Kind.
type Event struct {
	Kind  Kind
	Voice *VoiceSegment
	Telop *TelopEvent
}

// VoiceEvent wraps a segment as an Event.
func VoiceEvent(v VoiceSegment) Event {
	return Event{Kind: KindVoice, Voice: &v}
}

// TelopEventOf wraps a telop detection as an Event.
func TelopEventOf(t TelopEvent) Event {
	return Event{Kind: KindTelop, Telop: &t}
}

// Timestamp returns the event time in seconds.
func (e Event) Timestamp() float64 {
	switch e.Kind {
	case KindVoice:
		return e.Voice.Timestamp
	case KindTelop:
		return e.Telop.Timestamp
	}
	return 0
}
