package transcribe

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseSRT(t *testing.T) {
	content := "1\r\n00:00:00,000 --> 00:00:02,500\r\n  Hello there \r\n\r\n2\r\n00:00:12,300 --> 00:00:15,000\r\nsecond line\r\ncontinues\r\n"

	segs, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("ParseSRT() returned %d segments, want 2", len(segs))
	}

	if segs[0].Start != 0 || !approx(segs[0].End, 2.5) || segs[0].Text != "Hello there" {
		t.Errorf("segs[0] = %+v", segs[0])
	}
	if !approx(segs[1].Start, 12.3) || segs[1].Text != "second line continues" {
		t.Errorf("segs[1] = %+v", segs[1])
	}
}

func TestParseSRTHours(t *testing.T) {
	segs, err := ParseSRT("7\n01:02:03.004 --> 01:02:05.000\nlate\n")
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}
	if len(segs) != 1 || !approx(segs[0].Start, 3723.004) {
		t.Errorf("ParseSRT() = %+v, want start 3723.004", segs)
	}
}

func TestParseSRTEmpty(t *testing.T) {
	segs, err := ParseSRT("")
	if err != nil || len(segs) != 0 {
		t.Errorf("ParseSRT(\"\") = %+v, %v; want empty, nil", segs, err)
	}
}
