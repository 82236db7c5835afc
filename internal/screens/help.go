package screens

import (
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// HelpScreenID is the screen identifier for the help screen
	HelpScreenID = "help"
)

// HelpEntry is one keyboard shortcut row
type HelpEntry struct {
	Section     string
	Shortcut    string
	Description string
}

// getHelpEntries returns all keyboard shortcuts organized by section
func getHelpEntries() []HelpEntry {
	return []HelpEntry{
		// Navigation
		{"Navigation", "type", "Filter current list (! negates)"},
		{"Navigation", ":", "Open screen palette"},
		{"Navigation", "/", "Open action palette"},
		{"Navigation", "enter", "Drill into related resources"},
		{"Navigation", "esc", "Back / clear filter / close bar"},
		{"Navigation", "↑/↓", "Move selection up/down"},
		{"Navigation", "PgUp/PgDn", "Page up/down"},

		// Resources
		{"Resources", "ctrl+y", "View YAML for selection"},
		{"Resources", "ctrl+d", "Describe selection"},
		{"Resources", "ctrl+l", "View logs (pods only)"},
		{"Resources", "ctrl+x", "Delete selection (confirms)"},
		{"Resources", "/scale <n>", "Scale workload (confirms)"},
		{"Resources", "/restart", "Rollout restart (confirms)"},
		{"Resources", "/copy", "Copy resource name to clipboard"},

		// Context
		{"Context", "[", "Previous kubeconfig context"},
		{"Context", "]", "Next kubeconfig context"},
		{"Context", ":contexts", "List contexts; enter switches"},
		{"Context", "/retry", "Retry a failed context"},

		// Global
		{"Global", "ctrl+r", "Refresh current screen now"},
		{"Global", ":status", "Per-kind sync health"},
		{"Global", ":output", "Action result history"},
		{"Global", ":quit or ctrl+c", "Quit"},

		// Palette
		{"Palette", "↑/↓", "Navigate suggestions"},
		{"Palette", "tab", "Auto-complete"},
		{"Palette", "enter", "Execute command"},
		{"Palette", "esc", "Cancel"},

		// Viewer
		{"Viewer", "↑/↓", "Scroll content"},
		{"Viewer", "esc", "Close viewer"},
	}
}

// GetHelpScreenConfig returns the configuration for the help screen
func GetHelpScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:    HelpScreenID,
		Title: "Help - Keyboard Shortcuts",
		// No ResourceType: the help screen subscribes to nothing
		Columns: []ColumnConfig{
			{Field: "Section", Title: "Section", Width: 12, Priority: 1},
			{Field: "Shortcut", Title: "Shortcut", Width: 18, Priority: 1},
			{Field: "Description", Title: "Description", Width: 0, Priority: 1},
		},
		SearchFields: []string{"Section", "Shortcut", "Description"},
		NoTick:       true,

		CustomRefresh: func(s *ConfigScreen) tea.Cmd {
			return func() tea.Msg {
				return refreshResultMsg{
					screenID: HelpScreenID,
					items:    toAnySlice(getHelpEntries()),
				}
			}
		},
	}
}
