package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/components"
	"github.com/renato0307/vigia/internal/types"
)

const (
	// OutputScreenID is the screen identifier for the action result screen
	OutputScreenID = "output"
)

// GetOutputScreenConfig returns the config for the action result history
// screen. Rows come from the app's output buffer, newest first; the
// buffer fills as delete/scale/restart and friends complete.
func GetOutputScreenConfig(buffer *components.OutputBuffer) ScreenConfig {
	return ScreenConfig{
		ID:    OutputScreenID,
		Title: "Command Output",
		// No ResourceType: rows are action results, not cluster state
		Columns: []ColumnConfig{
			{Field: "Timestamp", Title: "Time", Width: 8, Format: formatClock, Priority: 1},
			{Field: "Status", Title: "Status", Width: 7, Format: formatOutputStatus, Priority: 1},
			{Field: "Command", Title: "Command", Width: 26, Priority: 1},
			{Field: "ResourceName", Title: "Resource", Width: 24, Priority: 2},
			{Field: "Namespace", Title: "Namespace", Width: 16, Priority: 3},
			{Field: "Context", Title: "Context", Width: 14, Priority: 3},
			{Field: "Duration", Title: "Took", Width: 7, Format: FormatDuration, Priority: 2},
			{Field: "Output", Title: "Output", Width: 0, Format: formatSingleLine, Priority: 1},
		},
		SearchFields: []string{"Command", "ResourceName", "Namespace", "Context", "Output"},

		CustomRefresh: func(s *ConfigScreen) tea.Cmd {
			return func() tea.Msg {
				return refreshResultMsg{
					screenID: OutputScreenID,
					items:    toAnySlice(buffer.GetAll()),
				}
			}
		},
	}
}

func formatClock(val any) string {
	t, ok := val.(time.Time)
	if !ok {
		return fmt.Sprint(val)
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

func formatOutputStatus(val any) string {
	t, ok := val.(types.MessageType)
	if !ok {
		return fmt.Sprint(val)
	}
	switch t {
	case types.MessageTypeSuccess:
		return "OK"
	case types.MessageTypeError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func formatSingleLine(val any) string {
	return strings.Join(strings.Fields(fmt.Sprint(val)), " ")
}
