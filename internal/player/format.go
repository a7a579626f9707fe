package player

import (
	"fmt"
	"time"
)

// FormatTime renders a second count as m:ss with zero-padded seconds.
// Negative or unknown values render as 0:00.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDuration renders a duration as m:ss.
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}
