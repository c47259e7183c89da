package util

import (
	"fmt"
	"time"
)

// Unknown stands in for a position that has no meaning yet, such as the
// elapsed label of a clip still being recorded.
const Unknown = "--:--"

// FormatDuration formats a duration as m:ss, or h:mm:ss from an hour on.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatRemaining formats the time left as -m:ss. Only whole elapsed seconds
// count, so the two labels always add up to the duration.
func FormatRemaining(elapsed, duration time.Duration) string {
	return "-" + FormatDuration(duration-elapsed.Truncate(time.Second))
}

// Progress returns elapsed as a fraction of duration in [0, 1].
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 || elapsed <= 0 {
		return 0
	}
	if elapsed >= duration {
		return 1
	}
	return float64(elapsed) / float64(duration)
}
