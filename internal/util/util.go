package util

import (
	"fmt"
	"time"
)

// FormatBytes formats bytes into human readable format.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	const units = "KMGTPEZY"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}

// HumanizeDuration renders a code lifetime for end users, using the largest
// whole unit: "24 hours", "5 minutes", "45 seconds".
func HumanizeDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	switch {
	case duration >= time.Hour && duration%time.Hour == 0:
		return plural(int64(duration/time.Hour), "hour")
	case duration >= time.Minute && duration%time.Minute == 0:
		return plural(int64(duration/time.Minute), "minute")
	default:
		return plural(int64(duration/time.Second), "second")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
