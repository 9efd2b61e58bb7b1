package utils

import (
	"fmt"
	"time"
)

// Plural returns the singular form when num is 1 (or -1), the plural form
// otherwise.
func Plural(num int, singular, plural string) string {
	if num == 1 || num == -1 {
		return singular
	}
	return plural
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}
