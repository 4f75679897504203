package review

import (
	"fmt"
	"strings"
)

// BaseURL strips everything from the first '&' on.
func BaseURL(url string) string {
	base, _, _ := strings.Cut(url, "&")
	return base
}

// DeepLink returns a link that starts playback at the bucket's second.
func DeepLink(url string, key int) string {
	return fmt.Sprintf("%s&t=%ds", BaseURL(url), key)
}

// FormatClock renders whole seconds as H:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		return "-" + FormatClock(-seconds)
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
