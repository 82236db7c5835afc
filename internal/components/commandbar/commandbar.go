package commandbar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/vigia/internal/commands"
	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/messages"
	"github.com/renato0307/vigia/internal/types"
)

// CommandBar coordinates filter input, the suggestion palette, command
// execution and confirmation prompts behind a single state machine.
//
// Typing filters the current list. ":" opens screen switching, "/" opens
// actions on the selection. Destructive actions pass through a
// confirmation state before executing.
type CommandBar struct {
	state     CommandBarState
	inputType CommandType
	width     int
	height    int
	appCtx    *types.AppContext

	// Context pushed in by the app on every screen change
	screenID         string
	selectedResource map[string]any

	currentTipIndex int

	history  *History
	palette  *Palette
	input    *Input
	executor *Executor
	registry *commands.Registry
}

// New creates a command bar wired to the app's provider and formatter.
func New(appCtx *types.AppContext) *CommandBar {
	registry := commands.NewRegistry(appCtx.Data, appCtx.Formatter)

	return &CommandBar{
		state:     StateHidden,
		inputType: CommandTypeFilter,
		width:     80,
		height:    1,
		appCtx:    appCtx,
		history:   NewHistory(),
		palette:   NewPalette(registry, appCtx.Theme, 80),
		input:     NewInput(registry, appCtx.Theme, 80),
		executor:  NewExecutor(appCtx, registry, 80),
		registry:  registry,
	}
}

// Init schedules the first usage tip rotation.
func (cb *CommandBar) Init() tea.Cmd {
	return scheduleTipRotation()
}

// SetWidth updates component widths.
func (cb *CommandBar) SetWidth(width int) {
	cb.width = width
	cb.palette.SetWidth(width)
	cb.input.SetWidth(width)
	cb.executor.SetWidth(width)
}

// SetScreen updates the current screen, which scopes action suggestions.
func (cb *CommandBar) SetScreen(screenID string) {
	cb.screenID = screenID
}

// SetSelectedResource updates the selected row commands act on.
func (cb *CommandBar) SetSelectedResource(resource map[string]any) {
	cb.selectedResource = resource
}

// GetHeight returns the bar height including its separators, without the
// hints line.
func (cb *CommandBar) GetHeight() int {
	if cb.state == StateHidden {
		return 0
	}
	// top separator + content + bottom separator
	return cb.height + 2
}

// GetTotalHeight returns the height including the hints line shown while
// hidden (separator, tip, separator).
func (cb *CommandBar) GetTotalHeight() int {
	if cb.state == StateHidden {
		return cb.GetHeight() + 3
	}
	return cb.GetHeight()
}

// GetState returns the current state.
func (cb *CommandBar) GetState() CommandBarState {
	return cb.state
}

// GetInput returns the current input buffer.
func (cb *CommandBar) GetInput() string {
	return cb.input.Get()
}

// GetInputType returns the current command type.
func (cb *CommandBar) GetInputType() CommandType {
	return cb.inputType
}

// IsActive returns true if the command bar is capturing keystrokes.
func (cb *CommandBar) IsActive() bool {
	return cb.state != StateHidden
}

// Reset hides the bar and drops any in-progress input. It runs on screen
// switches so a filter typed on one screen does not leak into the next.
func (cb *CommandBar) Reset() {
	cb.dismiss()
}

// RestoreFilter re-applies a saved filter, used when navigating back to
// a screen that had one. Returns the FilterUpdateMsg command re-filtering
// the list.
func (cb *CommandBar) RestoreFilter(filter string) tea.Cmd {
	if filter == "" {
		return nil
	}

	cb.input.Set(filter)
	cb.state = StateFilter
	cb.inputType = CommandTypeFilter
	cb.height = 1

	return func() tea.Msg {
		return types.FilterUpdateMsg{Filter: filter}
	}
}

// Update handles messages for the command bar.
func (cb *CommandBar) Update(msg tea.Msg) (*CommandBar, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return cb.handleKeyMsg(msg)
	case tipRotationMsg:
		cb.currentTipIndex = nextTipIndex(cb.currentTipIndex)
		return cb, scheduleTipRotation()
	}

	return cb, nil
}

// handleKeyMsg routes keyboard input to the handler for the current state.
func (cb *CommandBar) handleKeyMsg(msg tea.KeyMsg) (*CommandBar, tea.Cmd) {
	switch cb.state {
	case StateHidden:
		return cb.handleHiddenState(msg)
	case StateFilter:
		return cb.handleFilterState(msg)
	case StateSuggestionPalette:
		return cb.handlePaletteState(msg)
	case StateInput:
		return cb.handleInputState(msg)
	case StateConfirmation:
		return cb.handleConfirmationState(msg)
	}

	return cb, nil
}

// handleHiddenState handles input while the bar is hidden. Any printable
// character starts a filter; the prefixes open their palettes.
func (cb *CommandBar) handleHiddenState(msg tea.KeyMsg) (*CommandBar, tea.Cmd) {
	// esc clears a filter accepted earlier
	if msg.String() == "esc" && cb.input.Get() != "" {
		cb.input.Clear()
		return cb, func() tea.Msg {
			return types.ClearFilterMsg{}
		}
	}

	if msg.Paste {
		cb.state = StateFilter
		cb.inputType = CommandTypeFilter
		cb.input.Set(string(msg.Runes))
		cb.height = 1
		return cb, func() tea.Msg {
			return types.FilterUpdateMsg{Filter: cb.input.Get()}
		}
	}

	switch msg.String() {
	case ":":
		cb.transitionToPalette(":", CommandTypeResource)
		return cb, nil
	case "/":
		cb.transitionToPalette("/", CommandTypeAction)
		return cb, nil
	default:
		if len(msg.String()) == 1 && msg.String() != " " {
			cb.state = StateFilter
			cb.inputType = CommandTypeFilter
			cb.input.Set(msg.String())
			cb.height = 1
			return cb, func() tea.Msg {
				return types.FilterUpdateMsg{Filter: cb.input.Get()}
			}
		}
	}

	return cb, nil
}

// handleFilterState handles typing in filter mode. Every edit re-filters
// the list immediately.
func (cb *CommandBar) handleFilterState(msg tea.KeyMsg) (*CommandBar, tea.Cmd) {
	result := cb.input.HandleKeyMsg(msg)

	switch result.Action {
	case InputActionPaste:
		cb.input.AddText(result.Text)
		return cb, cb.filterUpdateCmd()

	case InputActionChar:
		cb.input.AddChar(result.Text)
		return cb, cb.filterUpdateCmd()

	case InputActionBackspace:
		if cb.input.Backspace() {
			cb.state = StateHidden
			return cb, func() tea.Msg {
				return types.ClearFilterMsg{}
			}
		}
		return cb, cb.filterUpdateCmd()
	}

	switch msg.String() {
	case "esc":
		cb.state = StateHidden
		cb.input.Clear()
		cb.height = 1
		return cb, func() tea.Msg {
			return types.ClearFilterMsg{}
		}

	case "enter":
		// Accept the filter: keep it applied, hide the input
		cb.state = StateHidden
		cb.height = 1
		return cb, nil
	}

	return cb, nil
}

func (cb *CommandBar) filterUpdateCmd() tea.Cmd {
	filter := cb.input.Get()
	return func() tea.Msg {
		return types.FilterUpdateMsg{Filter: filter}
	}
}

// handlePaletteState handles typing while suggestions are visible.
func (cb *CommandBar) handlePaletteState(msg tea.KeyMsg) (*CommandBar, tea.Cmd) {
	result := cb.input.HandleKeyMsg(msg)

	switch result.Action {
	case InputActionPaste:
		cb.input.AddText(result.Text)
		cb.refilterPalette()
		return cb, nil

	case InputActionChar:
		cb.input.AddChar(result.Text)
		cb.refilterPalette()
		return cb, nil

	case InputActionBackspace:
		if cb.input.Backspace() {
			cb.dismiss()
			return cb, nil
		}
		// Only the prefix left: drop back to hidden
		if len(cb.input.Get()) == 1 {
			cb.dismiss()
			return cb, nil
		}
		cb.refilterPalette()
		return cb, nil
	}

	switch msg.String() {
	case "esc":
		cb.dismiss()
		return cb, nil

	case "enter":
		return cb.handlePaletteEnter()

	case "up":
		cb.palette.NavigateUp()
		return cb, nil

	case "down":
		cb.palette.NavigateDown()
		return cb, nil

	case "tab":
		return cb.handlePaletteTab()
	}

	return cb, nil
}

// refilterPalette re-runs the palette filter against the buffer past the
// prefix character.
func (cb *CommandBar) refilterPalette() {
	query := cb.input.Get()[1:]
	cb.palette.Filter(query, cb.inputType, cb.screenID)
	cb.height = 1 + cb.palette.GetHeight()
}

// handlePaletteEnter executes the selected suggestion, or the typed
// command when the user already supplied arguments.
func (cb *CommandBar) handlePaletteEnter() (*CommandBar, tea.Cmd) {
	if len(cb.input.Get()) > 1 && strings.Contains(cb.input.Get(), " ") {
		cb.state = StateInput
		return cb.handleInputEnter()
	}

	selected := cb.palette.GetSelected()
	if selected == nil {
		return cb, nil
	}

	prefix := cb.input.Get()[:1]
	commandStr := prefix + selected.Name

	if selected.NeedsConfirmation {
		cb.executor.SetPending(selected, "", commandStr)
		cb.state = StateConfirmation
		cb.height = confirmationHeight
		cb.palette.Reset()
		return cb, nil
	}

	cb.history.Add(commandStr)

	var cmd tea.Cmd
	if selected.Execute != nil {
		ctx := cb.executor.BuildContext(k8s.ResourceType(cb.screenID), cb.selectedResource, "", commandStr)
		cmd = selected.Execute(ctx)
	}

	cb.dismiss()
	return cb, cmd
}

// handlePaletteTab completes the selected suggestion into input mode so
// the user can type arguments.
func (cb *CommandBar) handlePaletteTab() (*CommandBar, tea.Cmd) {
	selected := cb.palette.GetSelected()
	if selected == nil {
		return cb, nil
	}

	prefix := cb.input.Get()[:1]
	cb.input.Set(prefix + selected.Name + " ")

	cb.state = StateInput
	cb.height = 1
	cb.palette.Reset()

	return cb, nil
}

// handleInputState handles direct command input with arguments.
func (cb *CommandBar) handleInputState(msg tea.KeyMsg) (*CommandBar, tea.Cmd) {
	result := cb.input.HandleKeyMsg(msg)

	switch result.Action {
	case InputActionPaste:
		cb.input.AddText(result.Text)
		return cb, nil

	case InputActionChar:
		cb.input.AddChar(result.Text)
		return cb, nil

	case InputActionBackspace:
		if cb.input.Backspace() {
			cb.state = StateHidden
			cb.height = 1
			return cb, nil
		}
		// Backspaced down to the bare prefix: reopen suggestions
		switch cb.input.Get() {
		case ":":
			cb.transitionToPalette(":", CommandTypeResource)
		case "/":
			cb.transitionToPalette("/", CommandTypeAction)
		}
		return cb, nil
	}

	switch msg.String() {
	case "esc":
		cb.dismiss()
		cb.history.Reset()
		return cb, nil

	case "up":
		if prev, ok := cb.history.NavigateUp(); ok {
			cb.input.Set(prev)
		}
		return cb, nil

	case "down":
		if next, ok := cb.history.NavigateDown(); ok {
			cb.input.Set(next)
		} else {
			cb.input.Clear()
		}
		return cb, nil

	case "enter":
		return cb.handleInputEnter()
	}

	return cb, nil
}

// handleInputEnter parses and executes the typed command line.
func (cb *CommandBar) handleInputEnter() (*CommandBar, tea.Cmd) {
	inputStr := cb.input.Get()

	prefix, cmdName, args := cb.input.ParseCommand()
	if prefix == "" || cmdName == "" {
		cb.dismiss()
		cb.history.Reset()
		return cb, nil
	}

	var category commands.CommandCategory
	switch prefix {
	case ":":
		category = commands.CategoryResource
	case "/":
		category = commands.CategoryAction
	default:
		cb.dismiss()
		return cb, nil
	}

	ctx := cb.executor.BuildContext(k8s.ResourceType(cb.screenID), cb.selectedResource, args, inputStr)
	cmd, needsConfirm := cb.executor.Execute(cmdName, category, ctx)

	if needsConfirm {
		cb.state = StateConfirmation
		cb.height = confirmationHeight
		cb.palette.Reset()
		return cb, nil
	}

	if cmd != nil {
		cb.history.Add(inputStr)
		cb.dismiss()
		return cb, cmd
	}

	cb.dismiss()
	cb.history.Reset()
	return cb, messages.ErrorCmd("Unknown command: %s%s", prefix, cmdName)
}

// handleConfirmationState handles the confirm/cancel prompt for
// destructive commands.
func (cb *CommandBar) handleConfirmationState(msg tea.KeyMsg) (*CommandBar, tea.Cmd) {
	switch msg.String() {
	case "esc":
		cb.executor.CancelPending()
		cb.dismiss()
		return cb, nil

	case "enter":
		cb.history.Add(cb.executor.PendingInput())

		ctx := cb.executor.BuildContext(k8s.ResourceType(cb.screenID), cb.selectedResource, "", "")
		cmd := cb.executor.ExecutePending(ctx)

		cb.dismiss()
		return cb, cmd
	}

	return cb, nil
}

// transitionToPalette opens the suggestion palette for a prefix.
func (cb *CommandBar) transitionToPalette(input string, cmdType CommandType) {
	cb.state = StateSuggestionPalette
	cb.input.Set(input)
	cb.inputType = cmdType

	query := ""
	if len(input) > 1 {
		query = input[1:]
	}

	cb.palette.Filter(query, cmdType, cb.screenID)
	cb.height = 1 + cb.palette.GetHeight()
}

// dismiss returns the bar to hidden and clears transient state.
func (cb *CommandBar) dismiss() {
	cb.state = StateHidden
	cb.input.Clear()
	cb.height = 1
	cb.palette.Reset()
}

// confirmationHeight is the number of lines ViewConfirmation renders.
const confirmationHeight = 5

// View renders the command bar between separator rules.
func (cb *CommandBar) View() string {
	if cb.state == StateHidden {
		return ""
	}

	separator := cb.separator()

	var content string
	switch cb.state {
	case StateFilter, StateInput, StateSuggestionPalette:
		content = cb.input.View()
	case StateConfirmation:
		content = cb.executor.ViewConfirmation()
	default:
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left, separator, content, separator)
}

// ViewHints renders the rotating usage tip shown while the bar is hidden.
func (cb *CommandBar) ViewHints() string {
	if cb.state != StateHidden {
		return ""
	}

	hintStyle := lipgloss.NewStyle().
		Foreground(cb.appCtx.Theme.Subtle).
		Width(cb.width).
		Padding(0, 1)

	separator := cb.separator()
	hints := hintStyle.Render(usageTips[cb.currentTipIndex])

	return lipgloss.JoinVertical(lipgloss.Left, separator, hints, separator)
}

// ViewPaletteItems renders the suggestion list below the bar.
func (cb *CommandBar) ViewPaletteItems() string {
	if cb.state != StateSuggestionPalette {
		return ""
	}

	prefix := cb.input.Get()[:1]
	return cb.palette.View(prefix)
}

func (cb *CommandBar) separator() string {
	return lipgloss.NewStyle().
		Foreground(cb.appCtx.Theme.Border).
		Width(cb.width).
		Render(strings.Repeat("─", cb.width))
}

// ExecuteCommand runs a command by name, used by the app to dispatch
// keyboard shortcuts like ctrl+y through the same path as typed
// commands. Destructive commands still stop at confirmation.
func (cb *CommandBar) ExecuteCommand(name string, category commands.CommandCategory) (*CommandBar, tea.Cmd) {
	commandStr := categoryPrefix(category) + name

	ctx := cb.executor.BuildContext(k8s.ResourceType(cb.screenID), cb.selectedResource, "", commandStr)
	cmd, needsConfirm := cb.executor.Execute(name, category, ctx)

	if needsConfirm {
		cb.state = StateConfirmation
		cb.height = confirmationHeight
		return cb, nil
	}

	return cb, cmd
}

func categoryPrefix(category commands.CommandCategory) string {
	if category == commands.CategoryResource {
		return ":"
	}
	return "/"
}
