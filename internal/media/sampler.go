package media

import (
	"fmt"
	"math"
)

// SampleStride returns how many decoded frames make one sample at rateHz.
// Non-integral results round up, so sampling never exceeds the rate.
func SampleStride(fps, rateHz float64) int {
	if rateHz <= 0 {
		rateHz = 1
	}
	stride := int(math.Ceil(fps / rateHz))
	if stride < 1 {
		return 1
	}
	return stride
}

// Sampler yields every stride-th frame of a decoder. It is lazy,
// finite and cannot be restarted.
type Sampler struct {
	dec    Decoder
	fps    float64
	stride int
	next   int
	done   bool
}

// NewSampler wraps dec. The decoder is closed if its frame rate is unusable.
func NewSampler(dec Decoder, rateHz float64) (*Sampler, error) {
	fps := dec.FPS()
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		dec.Close()
		return nil, fmt.Errorf("%w: %v", ErrFrameRate, fps)
	}

	return &Sampler{
		dec:    dec,
		fps:    fps,
		stride: SampleStride(fps, rateHz),
	}, nil
}

// OpenSampler opens path with open and samples it at rateHz.
func OpenSampler(open OpenFunc, path string, rateHz float64) (*Sampler, error) {
	dec, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return NewSampler(dec, rateHz)
}

// Next returns the next sampled frame, or false once the source is exhausted.
func (s *Sampler) Next() (Frame, bool, error) {
	for !s.done {
		if !s.dec.Advance() {
			s.done = true
			break
		}

		idx := s.next
		s.next++
		if idx%s.stride != 0 {
			continue
		}

		img, err := s.dec.Image()
		if err != nil {
			return Frame{}, false, fmt.Errorf("decode frame %d: %w", idx, err)
		}
		return Frame{
			Index:     idx,
			Timestamp: float64(idx) / s.fps,
			Image:     img,
		}, true, nil
	}
	return Frame{}, false, nil
}

// TotalFrames returns the container frame count, 0 when unknown.
func (s *Sampler) TotalFrames() int {
	return s.dec.FrameCount()
}

// FPS returns the source frame rate.
func (s *Sampler) FPS() float64 {
	return s.fps
}

// Stride returns the number of decoded frames per sample.
func (s *Sampler) Stride() int {
	return s.stride
}

func (s *Sampler) Close() error {
	return s.dec.Close()
}
