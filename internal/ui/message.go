package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// MessageType defines the type of status message. It lives here rather than
// in internal/types so that types (which needs ui.Theme for AppContext) can
// depend on ui without creating an import cycle; internal/types re-exports it
// under the same names via aliases.
type MessageType int

const (
	MessageTypeInfo MessageType = iota
	MessageTypeSuccess
	MessageTypeError
	MessageTypeLoading // Loading state with spinner
)

// RenderMessage renders a user message with appropriate styling based on message type.
// Long messages are truncated to fit the terminal width.
func RenderMessage(text string, msgType MessageType, theme *Theme, spinnerView string, width int) string {
	if text == "" {
		return ""
	}

	// Truncate long messages to fit terminal width
	// Max length = terminal width - prefix (2) - margin (5)
	maxMessageLength := width - 7
	if maxMessageLength < 20 {
		maxMessageLength = 20 // Minimum reasonable length
	}
	if len(text) > maxMessageLength {
		text = text[:maxMessageLength-1] + "…"
	}

	var messageColor lipgloss.AdaptiveColor
	var prefix string

	circleBullet := "⏺ "

	switch msgType {
	case MessageTypeSuccess:
		messageColor = theme.Success
		prefix = circleBullet
	case MessageTypeError:
		messageColor = theme.Error
		prefix = circleBullet
	case MessageTypeInfo:
		messageColor = theme.Primary
		prefix = circleBullet
	case MessageTypeLoading:
		messageColor = theme.Warning
		if spinnerView != "" {
			prefix = spinnerView + " "
		} else {
			prefix = circleBullet
		}
	default:
		messageColor = theme.Primary
		prefix = circleBullet
	}

	messageStyle := lipgloss.NewStyle().Foreground(messageColor)
	return messageStyle.Render(prefix + text)
}
