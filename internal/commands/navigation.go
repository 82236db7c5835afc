package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/types"
)

// NavigationCommand returns execute function for switching to a screen
func NavigationCommand(screenID string) ExecuteFunc {
	return func(ctx CommandContext) tea.Cmd {
		return func() tea.Msg {
			return types.ScreenSwitchMsg{ScreenID: screenID, PushHistory: true}
		}
	}
}

// QuitCommand returns a command that quits the application
func QuitCommand() ExecuteFunc {
	return func(ctx CommandContext) tea.Cmd {
		return tea.Quit
	}
}
