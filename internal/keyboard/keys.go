package keyboard

// Keys holds the shortcuts the app loop dispatches itself. Filter and
// palette activation are not listed here: the command bar claims every
// printable rune while it is hidden, so app-level shortcuts stick to
// control combinations plus the few symbols the bar leaves alone.
type Keys struct {
	// Resource actions, aligned with the command palette shortcuts
	YAML     string
	Describe string
	Logs     string
	Delete   string

	// Context switching
	PrevContext string
	NextContext string

	// Global
	Quit    string
	Refresh string
	Back    string
	Help    string
}

// Default returns the default key map.
func Default() *Keys {
	return &Keys{
		YAML:     "ctrl+y",
		Describe: "ctrl+d",
		Logs:     "ctrl+l",
		Delete:   "ctrl+x",

		PrevContext: "[",
		NextContext: "]",

		Quit:    "ctrl+c",
		Refresh: "ctrl+r",
		Back:    "esc",
		Help:    "?",
	}
}
