package review

import (
	"math"
	"sort"
)

// Bucket groups the events whose timestamps share the same integer second.
type Bucket struct {
	Key   int            `json:"key"`
	Voice []VoiceSegment `json:"voice"`
	Telop []TelopEvent   `json:"telop"`
}

// Anchor reports which side carries the bucket heading: the voice column
// when it has events, otherwise the telop column.
func (b Bucket) Anchor() Kind {
	if len(b.Voice) > 0 {
		return KindVoice
	}
	return KindTelop
}

// BucketKey is the integer floor of a timestamp in seconds.
func BucketKey(ts float64) int {
	return int(math.Floor(ts))
}

// Fuse merges both streams into buckets ordered by ascending key.
//
// Events are tagged, stably sorted by bucket key and folded once; within a
// bucket each stream keeps its input order. Sub-second ordering between the
// voice and telop streams is not preserved.
func Fuse(voice []VoiceSegment, telops []TelopEvent) []Bucket {
	events := make([]Event, 0, len(voice)+len(telops))
	for _, v := range voice {
		events = append(events, VoiceEvent(v))
	}
	for _, t := range telops {
		events = append(events, TelopEventOf(t))
	}

	sort.SliceStable(events, func(i, j int) bool {
		return BucketKey(events[i].Timestamp()) < BucketKey(events[j].Timestamp())
	})

	var buckets []Bucket
	for _, e := range events {
		key := BucketKey(e.Timestamp())
		if len(buckets) == 0 || buckets[len(buckets)-1].Key != key {
			buckets = append(buckets, Bucket{Key: key})
		}
		b := &buckets[len(buckets)-1]

		switch e.Kind {
		case KindVoice:
			b.Voice = append(b.Voice, *e.Voice)
		case KindTelop:
			b.Telop = append(b.Telop, *e.Telop)
		}
	}

	return buckets
}
