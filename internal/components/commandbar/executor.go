package commandbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/vigia/internal/commands"
	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/types"
)

// Executor resolves command names against the registry, runs them, and
// holds the pending command while a destructive action waits for
// confirmation.
type Executor struct {
	appCtx   *types.AppContext
	registry *commands.Registry
	width    int

	pendingCommand *commands.Command
	pendingArgs    string
	pendingInput   string // full typed line, for history and action metadata
}

// NewExecutor creates a new executor.
func NewExecutor(appCtx *types.AppContext, registry *commands.Registry, width int) *Executor {
	return &Executor{
		appCtx:   appCtx,
		registry: registry,
		width:    width,
	}
}

// SetWidth updates the executor width.
func (e *Executor) SetWidth(width int) {
	e.width = width
}

// BuildContext assembles the CommandContext handed to a command's
// Execute function. input is the full command line as the user typed it.
func (e *Executor) BuildContext(resourceType k8s.ResourceType, selected map[string]any, args, input string) commands.CommandContext {
	return commands.CommandContext{
		ResourceType: resourceType,
		Selected:     selected,
		Args:         args,
		Command:      input,
	}
}

// Execute looks up a command by name and category and runs it. Commands
// that need confirmation are parked as pending instead; the second
// return reports that.
func (e *Executor) Execute(cmdName string, category commands.CommandCategory, ctx commands.CommandContext) (tea.Cmd, bool) {
	cmd := e.registry.Get(cmdName, category)
	if cmd == nil {
		return nil, false
	}

	if cmd.NeedsConfirmation {
		e.SetPending(cmd, ctx.Args, ctx.Command)
		return nil, true
	}

	if cmd.Execute != nil {
		return cmd.Execute(ctx), false
	}

	return nil, false
}

// SetPending parks a command awaiting confirmation, keeping the args and
// typed line it was invoked with.
func (e *Executor) SetPending(cmd *commands.Command, args, input string) {
	e.pendingCommand = cmd
	e.pendingArgs = args
	e.pendingInput = input
}

// ExecutePending runs the parked command with the args it was invoked
// with, then clears the pending state.
func (e *Executor) ExecutePending(ctx commands.CommandContext) tea.Cmd {
	if e.pendingCommand == nil || e.pendingCommand.Execute == nil {
		return nil
	}

	ctx.Args = e.pendingArgs
	ctx.Command = e.pendingInput
	cmd := e.pendingCommand.Execute(ctx)

	e.CancelPending()
	return cmd
}

// CancelPending discards the parked command.
func (e *Executor) CancelPending() {
	e.pendingCommand = nil
	e.pendingArgs = ""
	e.pendingInput = ""
}

// HasPending returns true if a command is awaiting confirmation.
func (e *Executor) HasPending() bool {
	return e.pendingCommand != nil
}

// GetPendingCommand returns the command awaiting confirmation.
func (e *Executor) GetPendingCommand() *commands.Command {
	return e.pendingCommand
}

// PendingInput returns the typed line of the command awaiting
// confirmation, for history recording once the user confirms.
func (e *Executor) PendingInput() string {
	return e.pendingInput
}

// ViewConfirmation renders the confirmation prompt for the pending command.
func (e *Executor) ViewConfirmation() string {
	if e.pendingCommand == nil {
		return ""
	}

	theme := e.appCtx.Theme

	titleStyle := lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Width(e.width).
		Padding(0, 1)

	textStyle := lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Width(e.width).
		Padding(0, 1)

	hintStyle := lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Width(e.width).
		Padding(0, 1)

	command := e.pendingInput
	if command == "" {
		command = "/" + e.pendingCommand.Name
	}

	lines := []string{
		titleStyle.Render("⚠ Confirm Action"),
		textStyle.Render(""),
		textStyle.Render("Command: " + command),
		textStyle.Render("This action cannot be undone."),
		hintStyle.Render("[Enter] Confirm  [ESC] Cancel"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
