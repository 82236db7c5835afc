package components

import "time"

const (
	// HeaderHeight is the number of lines the header occupies.
	HeaderHeight = 1

	// StatusBarHeight is the number of lines reserved for status messages.
	// The line is always reserved so the layout does not jump when a
	// message appears.
	StatusBarHeight = 1

	// MinBodyHeight is the smallest body the layout will produce, even on
	// tiny terminals.
	MinBodyHeight = 3

	// FullScreenReservedLines is the number of lines reserved for chrome
	// (title line, separator, scroll indicator) in full-screen views.
	FullScreenReservedLines = 3

	// StatusBarDisplayDuration is how long status messages are displayed
	// before automatically clearing.
	StatusBarDisplayDuration = 5 * time.Second
)
