package commandbar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/vigia/internal/commands"
	"github.com/renato0307/vigia/internal/ui"
)

// InputAction classifies what a keystroke does to the buffer.
type InputAction int

const (
	InputActionNone InputAction = iota
	InputActionChar
	InputActionBackspace
	InputActionPaste
)

// KeyMsgResult is the outcome of classifying a key message.
type KeyMsgResult struct {
	Action InputAction
	Text   string
}

// Input manages the typed buffer shared by filter and command modes.
type Input struct {
	buffer   string
	registry *commands.Registry
	theme    *ui.Theme
	width    int
}

// NewInput creates a new input manager.
func NewInput(registry *commands.Registry, theme *ui.Theme, width int) *Input {
	return &Input{
		registry: registry,
		theme:    theme,
		width:    width,
	}
}

// SetWidth updates the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
}

// Get returns the current buffer.
func (i *Input) Get() string {
	return i.buffer
}

// Set replaces the buffer.
func (i *Input) Set(text string) {
	i.buffer = text
}

// Clear empties the buffer.
func (i *Input) Clear() {
	i.buffer = ""
}

// IsEmpty returns true if the buffer is empty.
func (i *Input) IsEmpty() bool {
	return i.buffer == ""
}

// AddChar appends a single typed character.
func (i *Input) AddChar(ch string) {
	i.buffer += ch
}

// AddText appends pasted text.
func (i *Input) AddText(text string) {
	i.buffer += text
}

// Backspace removes the last rune from the buffer.
// Returns true if the buffer is now empty.
func (i *Input) Backspace() bool {
	if i.buffer != "" {
		r := []rune(i.buffer)
		i.buffer = string(r[:len(r)-1])
	}
	return i.buffer == ""
}

// HandleKeyMsg classifies a key message without mutating the buffer, so
// each state handler decides what the action means for it.
func (i *Input) HandleKeyMsg(msg tea.KeyMsg) KeyMsgResult {
	if msg.Paste {
		return KeyMsgResult{
			Action: InputActionPaste,
			Text:   string(msg.Runes),
		}
	}

	switch msg.String() {
	case "backspace":
		return KeyMsgResult{Action: InputActionBackspace}
	default:
		// Single printable character, including space
		if len(msg.String()) == 1 {
			return KeyMsgResult{
				Action: InputActionChar,
				Text:   msg.String(),
			}
		}
	}

	return KeyMsgResult{Action: InputActionNone}
}

// ParseCommand splits the buffer into prefix, command name and args.
// ":pods" parses to ":", "pods", ""; "/scale 5" to "/", "scale", "5".
func (i *Input) ParseCommand() (prefix, cmdName, args string) {
	if i.buffer == "" {
		return "", "", ""
	}

	prefix = i.buffer[:1]
	rest := i.buffer[1:]

	parts := strings.SplitN(rest, " ", 2)
	cmdName = parts[0]
	if len(parts) > 1 {
		args = parts[1]
	}

	return prefix, cmdName, args
}

// GetArgumentHint returns the remaining argument placeholders for the
// typed command: "/logs " hints "[container] [tail]", "/logs app " hints
// "[tail]". Empty while the user is mid-word on an argument.
func (i *Input) GetArgumentHint() string {
	if i.buffer == "" {
		return ""
	}

	prefix := i.buffer[:1]
	if prefix != ":" && prefix != "/" {
		return ""
	}

	parts := strings.Fields(i.buffer)
	if len(parts) == 0 {
		return ""
	}

	cmdName := strings.TrimPrefix(parts[0], prefix)

	category := commands.CategoryAction
	if prefix == ":" {
		category = commands.CategoryResource
	}

	cmd := i.registry.Get(cmdName, category)
	if cmd == nil {
		return ""
	}

	placeholders := splitArgPattern(cmd.ArgPattern)
	if len(placeholders) == 0 {
		return ""
	}

	typedArgs := len(parts) - 1

	// Mid-word on an argument: wait for the trailing space.
	if typedArgs > 0 && !strings.HasSuffix(i.buffer, " ") {
		return ""
	}

	if typedArgs >= len(placeholders) {
		return ""
	}

	return " " + strings.Join(placeholders[typedArgs:], " ")
}

// splitArgPattern extracts the individual <required> and [optional]
// placeholders from a command's ArgPattern.
func splitArgPattern(pattern string) []string {
	placeholders := []string{}
	current := ""
	inBracket := false

	for _, ch := range strings.TrimSpace(pattern) {
		switch {
		case ch == '<' || ch == '[':
			inBracket = true
			current = string(ch)
		case ch == '>' || ch == ']':
			current += string(ch)
			placeholders = append(placeholders, current)
			current = ""
			inBracket = false
		case inBracket:
			current += string(ch)
		}
	}

	return placeholders
}

// View renders the buffer with a block cursor and the argument hint.
func (i *Input) View() string {
	barStyle := lipgloss.NewStyle().
		Foreground(i.theme.Foreground).
		Width(i.width).
		Padding(0, 1)

	display := i.buffer + "█"

	if hint := i.GetArgumentHint(); hint != "" {
		hintStyle := lipgloss.NewStyle().
			Foreground(i.theme.Dimmed).
			Italic(true)
		display += hintStyle.Render(hint)
	}

	return barStyle.Render(display)
}
