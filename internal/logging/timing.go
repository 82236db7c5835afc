package logging

import (
	"time"
)

// TimingContext holds timing information for manual Start/End tracking
type TimingContext struct {
	name      string
	startTime time.Time
}

// Start begins a timing measurement for manual control.
// Must be paired with End() or EndWithCount() to log the duration.
//
// Example:
//
//	tc := logging.Start("seed pods")
//	// ... do work ...
//	logging.End(tc)
func Start(name string) TimingContext {
	return TimingContext{
		name:      name,
		startTime: time.Now(),
	}
}

// End completes a timing measurement started with Start() and logs the duration.
func End(tc TimingContext) {
	if !IsEnabled() {
		return
	}

	duration := time.Since(tc.startTime)
	Get().Debug(tc.name,
		"duration", duration.String(),
		"ms", duration.Milliseconds(),
	)
}

// EndWithCount completes a timing measurement and logs the duration with an
// item count. Useful for operations that process multiple items.
func EndWithCount(tc TimingContext, count int) {
	if !IsEnabled() {
		return
	}

	duration := time.Since(tc.startTime)
	Get().Debug(tc.name,
		"duration", duration.String(),
		"ms", duration.Milliseconds(),
		"count", count,
	)
}
