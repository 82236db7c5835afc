package commandbar

// History keeps executed command lines for up/down recall in input mode.
// Navigation is positional: -1 means not navigating, anything else is an
// index into entries.
type History struct {
	entries []string
	index   int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{
		entries: []string{},
		index:   -1,
	}
}

// Add records a command line. Empty lines and immediate repeats of the
// most recent entry are ignored, and the buffer is trimmed to
// maxHistoryEntries.
func (h *History) Add(cmd string) {
	if cmd == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		h.index = -1
		return
	}

	h.entries = append(h.entries, cmd)
	if len(h.entries) > maxHistoryEntries {
		h.entries = h.entries[len(h.entries)-maxHistoryEntries:]
	}
	h.index = -1
}

// NavigateUp moves to the previous (older) entry. The first call starts
// at the most recent entry; further calls stop at the oldest.
func (h *History) NavigateUp() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}

	switch {
	case h.index == -1:
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	}

	return h.entries[h.index], true
}

// NavigateDown moves to the next (newer) entry. Stepping past the most
// recent entry ends navigation and reports false so the caller can clear
// the input.
func (h *History) NavigateDown() (string, bool) {
	if len(h.entries) == 0 || h.index == -1 {
		return "", false
	}

	if h.index < len(h.entries)-1 {
		h.index++
		return h.entries[h.index], true
	}

	h.index = -1
	return "", false
}

// Reset ends history navigation without touching the entries.
func (h *History) Reset() {
	h.index = -1
}

// IsEmpty returns true if no commands were recorded.
func (h *History) IsEmpty() bool {
	return len(h.entries) == 0
}

// Size returns the number of recorded commands.
func (h *History) Size() int {
	return len(h.entries)
}
