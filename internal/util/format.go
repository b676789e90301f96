package util

import (
	"fmt"
)

// FormatSeconds renders a clock position like "1:23.500" for display,
// or "12.500s" below one minute.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%.3fs", seconds)
	}
	minutes := int(seconds) / 60
	rest := seconds - float64(minutes*60)
	return fmt.Sprintf("%d:%06.3f", minutes, rest)
}

// FormatSpeed renders a signed playback rate, e.g. "1.0x" or "-2.5x".
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx", speed)
}

// FormatValue renders a curve sample with a stable width.
func FormatValue(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
