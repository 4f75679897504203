package transcribe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reSrtTiming = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// ParseSRT parses SubRip content into segments. Cue numbers are ignored and
// multi-line cue text is joined with a space.
func ParseSRT(content string) ([]Segment, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\uFEFF")

	var (
		segs []Segment
		cur  *Segment
		text []string
	)
	flush := func() {
		if cur != nil {
			cur.Text = strings.Join(text, " ")
			segs = append(segs, *cur)
		}
		cur, text = nil, nil
	}

	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if m := reSrtTiming.FindStringSubmatch(trimmed); m != nil {
			flush()
			start, err := srtSeconds(m[1:5])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			end, err := srtSeconds(m[5:9])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			cur = &Segment{Start: start, End: end}
			continue
		}
		if cur == nil {
			// cue index or stray text before the first timing line
			continue
		}
		text = append(text, trimmed)
	}
	flush()

	return segs, nil
}

func srtSeconds(parts []string) (float64, error) {
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("parse timestamp: %w", err)
		}
		v[i] = n
	}
	return float64(v[0]*3600+v[1]*60+v[2]) + float64(v[3])/1000, nil
}
