package library

import "fmt"

// FormatRuntime renders a second count in a compact human form: "45s",
// "2m 30s", "1h 5m". Sub-minute remainders are dropped above an hour.
func FormatRuntime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		if total%60 == 0 {
			return fmt.Sprintf("%dm", total/60)
		}
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	default:
		hours := total / 3600
		minutes := (total % 3600) / 60
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}
