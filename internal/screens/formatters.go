package screens

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration the way kubectl does: the largest
// whole unit only.
func FormatDuration(val any) string {
	d, ok := val.(time.Duration)
	if !ok {
		return fmt.Sprint(val)
	}

	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// FormatAge renders a creation timestamp as an age relative to now.
// Computing from the timestamp at render time keeps ages live even though
// the cached rows are only rewritten when a watch event arrives.
func FormatAge(val any) string {
	t, ok := val.(time.Time)
	if !ok {
		return fmt.Sprint(val)
	}
	if t.IsZero() {
		return "<none>"
	}
	return FormatDuration(time.Since(t))
}

// FormatOptionalDuration renders a duration that may legitimately be
// absent, like the last run of a cronjob that never fired.
func FormatOptionalDuration(val any) string {
	d, ok := val.(time.Duration)
	if !ok {
		return fmt.Sprint(val)
	}
	if d <= 0 {
		return "<none>"
	}
	return FormatDuration(d)
}
