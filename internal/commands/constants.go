package commands

import "time"

// Command execution constants
const (
	// ActionTimeout bounds the API calls made by action commands (delete,
	// scale, restart, logs). Set to 30 seconds to handle slow clusters or
	// large resource operations while preventing indefinite hangs.
	ActionTimeout = 30 * time.Second

	// DefaultLogTail is the number of log lines fetched when the user does
	// not pass an explicit tail count.
	DefaultLogTail = 100
)
