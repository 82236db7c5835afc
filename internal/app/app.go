package app

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/commands"
	"github.com/renato0307/vigia/internal/components"
	"github.com/renato0307/vigia/internal/components/commandbar"
	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/keyboard"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/messages"
	"github.com/renato0307/vigia/internal/screens"
	"github.com/renato0307/vigia/internal/types"
)

// MaxNavigationHistorySize bounds the ESC back stack.
const MaxNavigationHistorySize = 10

// initialScreenID is where the app lands after startup.
const initialScreenID = "pods"

// NavigationState is one entry in the back stack: the screen the user came
// from and what was narrowing its view.
type NavigationState struct {
	ScreenID      string
	FilterContext *types.FilterContext
	Filter        string
}

// Config carries startup options into the model.
type Config struct {
	// TickRate overrides the default refresh cadence for resource screens.
	// Screens with their own cadence (contexts) keep it. Values below the
	// refresh floor are raised to it.
	TickRate time.Duration
}

// Model is the root bubbletea model. It owns the chrome around the active
// screen, routes keys between the command bar and the screen, keeps the
// back stack, and drives context switches.
type Model struct {
	appCtx   *types.AppContext
	state    types.AppState
	registry *types.ScreenRegistry

	currentScreen types.Screen
	header        *components.Header
	layout        *components.Layout
	statusBar     *components.StatusBar
	commandBar    *commandbar.CommandBar
	fullScreen    *components.FullScreen

	outputBuffer *components.OutputBuffer
	keys         *keyboard.Keys

	navigationHistory []NavigationState

	// statusID guards delayed clears: a scheduled ClearStatusMsg only
	// clears the message it was armed for, not whatever replaced it.
	statusID int

	// contextProgress is non-nil while a context switch is in flight.
	contextProgress chan k8s.ContextLoadProgress
}

// NewModel builds the root model with every screen registered and the
// initial screen's kind subscribed.
func NewModel(appCtx *types.AppContext, cfg Config) Model {
	registry := types.NewScreenRegistry()
	outputBuffer := components.NewOutputBuffer()

	for _, sc := range screens.ResourceScreenConfigs() {
		if cfg.TickRate > 0 && sc.RefreshInterval == 0 {
			sc.RefreshInterval = max(cfg.TickRate, screens.MinRefreshInterval)
		}
		registry.Register(screens.NewConfigScreen(sc, appCtx))
	}
	registry.Register(screens.NewSyncStatusScreen(appCtx))
	registry.Register(screens.NewConfigScreen(screens.GetHelpScreenConfig(), appCtx))
	registry.Register(screens.NewConfigScreen(screens.GetOutputScreenConfig(outputBuffer), appCtx))

	initialScreen, _ := registry.Get(initialScreenID)

	header := components.NewHeader(appCtx, "vigia")
	header.SetScreenTitle(initialScreen.Title())
	header.SetWidth(80)

	commandBar := commandbar.New(appCtx)
	commandBar.SetWidth(80)
	commandBar.SetScreen(initialScreenID)

	statusBar := components.NewStatusBar(appCtx.Theme)
	statusBar.SetWidth(80)

	m := Model{
		appCtx: appCtx,
		state: types.AppState{
			CurrentScreen: initialScreenID,
			Width:         80,
			Height:        24,
		},
		registry:      registry,
		currentScreen: initialScreen,
		header:        header,
		layout:        components.NewLayout(80, 24),
		statusBar:     statusBar,
		commandBar:    commandBar,
		outputBuffer:  outputBuffer,
		keys:          keyboard.Default(),
	}

	if appCtx.Contexts != nil {
		m.state.ActiveContext = appCtx.Contexts.GetActiveContext()
		header.SetContext(m.state.ActiveContext)
	}

	m.resizeBody()

	if rt := screenResourceType(initialScreen); rt != "" {
		appCtx.Data.Acquire(rt)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.currentScreen.Init(), m.commandBar.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case types.ScreenSwitchMsg:
		return m.handleScreenSwitch(msg)

	case types.RefreshCompleteMsg:
		m.state.LastRefresh = time.Now()
		m.state.RefreshTime = msg.Duration
		m.header.SetLastRefresh(m.state.LastRefresh)
		if counter, ok := m.currentScreen.(interface{ ItemCount() int }); ok {
			m.header.SetItemCount(counter.ItemCount())
		}
		return m, nil

	case types.StatusMsg:
		return m.handleStatus(msg)

	case types.ClearStatusMsg:
		if msg.MessageID == m.statusID && !m.statusBar.IsLoadingMessage() {
			m.statusBar.ClearMessage()
		}
		return m, nil

	case spinner.TickMsg:
		statusBar, cmd := m.statusBar.Update(msg)
		m.statusBar = statusBar
		return m, cmd

	case types.ShowFullScreenMsg:
		fullScreen := components.NewFullScreen(msg.ViewType, msg.ResourceName, msg.Content, m.appCtx.Theme)
		fullScreen.SetSize(m.state.Width, m.state.Height)
		m.fullScreen = fullScreen
		return m, nil

	case types.ExitFullScreenMsg:
		m.fullScreen = nil
		return m, nil

	case types.ContextSwitchMsg:
		return m.startContextSwitch(msg.ContextName, false)

	case types.ContextRetryMsg:
		return m.startContextSwitch(msg.ContextName, true)

	case types.ContextLoadProgressMsg:
		if m.contextProgress == nil {
			return m, nil
		}
		m.statusID++
		m.statusBar.SetMessage(msg.Message, types.MessageTypeLoading)
		return m, tea.Batch(m.statusBar.GetSpinnerCmd(), listenForProgress(m.contextProgress))

	case types.ContextSwitchCompleteMsg:
		return m.finishContextSwitch(msg)

	case types.ContextLoadFailedMsg:
		m.contextProgress = nil
		logging.Error("Context load failed", "context", msg.Context, "error", msg.Error)
		return m, messages.ErrorCmd("Failed to load context %s: %v", msg.Context, msg.Error)
	}

	model, cmd := m.currentScreen.Update(msg)
	m.currentScreen = model.(types.Screen)
	return m, cmd
}

func (m Model) View() string {
	if m.fullScreen != nil {
		return m.fullScreen.View()
	}

	return m.layout.Render(
		m.header.View(),
		m.currentScreen.View(),
		m.statusBar.View(),
		m.commandBar.View(),
		m.commandBar.ViewPaletteItems(),
		m.commandBar.ViewHints(),
	)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.state.Width = msg.Width
	m.state.Height = msg.Height
	m.layout.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.commandBar.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	if m.fullScreen != nil {
		m.fullScreen.SetSize(msg.Width, msg.Height)
	}
	m.resizeBody()
	return m, nil
}

// handleKey routes a key press. The full-screen viewer, the command bar
// and the active screen each get a shot, in that order; the bar's state
// transition decides whether the screen still sees the key.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fullScreen != nil {
		switch msg.String() {
		case m.keys.Quit:
			return m, tea.Quit
		case m.keys.Back, "q":
			m.fullScreen = nil
			return m, nil
		}
		fullScreen, cmd := m.fullScreen.Update(msg)
		m.fullScreen = fullScreen
		return m, cmd
	}

	if msg.String() == m.keys.Quit {
		return m, tea.Quit
	}

	// Commands act on whatever row is selected right now
	if withSel, ok := m.currentScreen.(types.ScreenWithSelection); ok {
		m.commandBar.SetSelectedResource(withSel.GetSelectedResource())
	}

	if m.commandBar.GetState() == commandbar.StateHidden {
		if model, cmd, handled := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	oldState := m.commandBar.GetState()
	commandBar, barCmd := m.commandBar.Update(msg)
	m.commandBar = commandBar
	newState := m.commandBar.GetState()

	// Bar height changes as it opens and closes
	m.resizeBody()

	// ESC with an idle bar walks the back stack
	if msg.String() == m.keys.Back && oldState == commandbar.StateHidden &&
		newState == commandbar.StateHidden && barCmd == nil {
		return m, m.popNavigationHistory()
	}

	if oldState == commandbar.StateHidden && newState == commandbar.StateHidden {
		model, screenCmd := m.currentScreen.Update(msg)
		m.currentScreen = model.(types.Screen)
		return m, tea.Batch(barCmd, screenCmd)
	}

	// While a filter is being typed the list keeps vertical movement
	if newState == commandbar.StateFilter && isListNavKey(msg) {
		model, screenCmd := m.currentScreen.Update(msg)
		m.currentScreen = model.(types.Screen)
		return m, tea.Batch(barCmd, screenCmd)
	}

	return m, barCmd
}

// handleGlobalKey dispatches app-level shortcuts. Only called while the
// command bar is hidden, so typing a filter never triggers these.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case m.keys.Refresh:
		return m, m.currentScreen.Init(), true

	case m.keys.Help:
		return m, switchScreenCmd("help"), true

	case m.keys.YAML:
		return m.dispatchShortcut("yaml")

	case m.keys.Describe:
		return m.dispatchShortcut("describe")

	case m.keys.Logs:
		return m.dispatchShortcut("logs")

	case m.keys.Delete:
		return m.dispatchShortcut("delete")

	case m.keys.PrevContext:
		return m, m.cycleContext(-1), true

	case m.keys.NextContext:
		return m, m.cycleContext(1), true
	}

	return m, nil, false
}

// dispatchShortcut runs an action command through the same executor as the
// palette, so confirmation prompts and history tracking behave the same.
func (m Model) dispatchShortcut(name string) (Model, tea.Cmd, bool) {
	commandBar, cmd := m.commandBar.ExecuteCommand(name, commands.CategoryAction)
	m.commandBar = commandBar
	m.resizeBody()
	return m, cmd, true
}

// isListNavKey reports keys that move the list selection and should reach
// the screen even while the filter input is focused.
func isListNavKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "down", "pgup", "pgdown":
		return true
	}
	return false
}

// handleScreenSwitch swaps the active screen, moving the kind subscription
// with it and restoring any saved filter on back navigation.
func (m Model) handleScreenSwitch(msg types.ScreenSwitchMsg) (tea.Model, tea.Cmd) {
	screen, ok := m.registry.Get(msg.ScreenID)
	if !ok {
		return m, messages.ErrorCmd("Unknown screen: %s", msg.ScreenID)
	}

	// Same-screen switches without a drill-down context would make ESC
	// appear to do nothing, so they never push.
	if msg.PushHistory && !msg.IsBackNav &&
		!(msg.ScreenID == m.state.CurrentScreen && msg.FilterContext == nil) {
		m.pushNavigationHistory()
	}

	oldType := screenResourceType(m.currentScreen)
	newType := screenResourceType(screen)
	if oldType != newType {
		if oldType != "" {
			m.appCtx.Data.Release(oldType)
		}
		if newType != "" {
			m.appCtx.Data.Acquire(newType)
		}
	}

	logging.Debug("Switching screen",
		"from", m.state.CurrentScreen, "to", msg.ScreenID, "back", msg.IsBackNav)

	m.currentScreen = screen
	m.state.CurrentScreen = msg.ScreenID

	if configScreen, ok := screen.(*screens.ConfigScreen); ok {
		configScreen.ApplyFilterContext(msg.FilterContext)
		configScreen.SetFilter(msg.CommandBarFilter)
	}

	m.commandBar.SetScreen(msg.ScreenID)
	m.commandBar.Reset()
	var restoreCmd tea.Cmd
	if msg.CommandBarFilter != "" {
		restoreCmd = m.commandBar.RestoreFilter(msg.CommandBarFilter)
	}

	m.header.SetScreenTitle(screen.Title())
	m.resizeBody()

	return m, tea.Batch(screen.Init(), restoreCmd)
}

func (m Model) handleStatus(msg types.StatusMsg) (tea.Model, tea.Cmd) {
	m.statusID++
	m.statusBar.SetMessage(msg.Message, msg.Type)

	if msg.TrackInHistory {
		m.recordOutput(msg)
	}

	var cmds []tea.Cmd
	if cmd := m.statusBar.GetSpinnerCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	// Loading messages stay until replaced; everything else expires
	if msg.Type != types.MessageTypeLoading {
		id := m.statusID
		cmds = append(cmds, tea.Tick(components.StatusBarDisplayDuration, func(time.Time) tea.Msg {
			return types.ClearStatusMsg{MessageID: id}
		}))
	}

	return m, tea.Batch(cmds...)
}

// recordOutput appends a tracked action result to the output history.
func (m *Model) recordOutput(msg types.StatusMsg) {
	entry := components.CommandOutput{
		Output:    msg.Message,
		Status:    msg.Type,
		Context:   m.state.ActiveContext,
		Timestamp: time.Now(),
	}
	if meta := msg.HistoryMetadata; meta != nil {
		entry.Command = meta.Command
		entry.ResourceType = meta.ResourceType
		entry.ResourceName = meta.ResourceName
		entry.Namespace = meta.Namespace
		entry.Duration = meta.Duration
		if meta.Context != "" {
			entry.Context = meta.Context
		}
		if !meta.Timestamp.IsZero() {
			entry.Timestamp = meta.Timestamp
		}
	}
	m.outputBuffer.Add(entry)
}

// startContextSwitch kicks off an asynchronous context switch. The blocking
// call runs in a command goroutine; progress arrives through a channel that
// a second command drains message by message.
func (m Model) startContextSwitch(name string, retry bool) (tea.Model, tea.Cmd) {
	if m.appCtx.Contexts == nil {
		return m, nil
	}
	if m.contextProgress != nil {
		return m, messages.InfoCmd("Context switch already in progress")
	}

	provider := m.appCtx.Contexts
	oldContext := m.state.ActiveContext
	progress := make(chan k8s.ContextLoadProgress, 8)
	m.contextProgress = progress

	m.statusID++
	m.statusBar.SetMessage("Switching to context "+name+"...", types.MessageTypeLoading)

	logging.Info("Context switch started", "context", name, "retry", retry)

	switchCmd := func() tea.Msg {
		var err error
		if retry {
			err = provider.RetryFailedContext(name, progress)
		} else {
			err = provider.SwitchContext(name, progress)
		}
		close(progress)
		if err != nil {
			return types.ContextLoadFailedMsg{Context: name, Error: err}
		}
		return types.ContextSwitchCompleteMsg{OldContext: oldContext, NewContext: name}
	}

	return m, tea.Batch(m.statusBar.GetSpinnerCmd(), switchCmd, listenForProgress(progress))
}

func (m Model) finishContextSwitch(msg types.ContextSwitchCompleteMsg) (tea.Model, tea.Cmd) {
	m.contextProgress = nil
	m.state.ActiveContext = msg.NewContext
	m.header.SetContext(msg.NewContext)

	// Resubscribe the active screen's kind on the new cluster
	if rt := screenResourceType(m.currentScreen); rt != "" {
		m.appCtx.Data.Acquire(rt)
	}

	logging.Info("Context switch complete", "from", msg.OldContext, "to", msg.NewContext)

	return m, tea.Batch(
		m.currentScreen.Init(),
		messages.SuccessCmd("Switched to context %s", msg.NewContext),
	)
}

// listenForProgress waits for one progress update. The handler re-arms it
// until the channel closes.
func listenForProgress(progress chan k8s.ContextLoadProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-progress
		if !ok {
			return nil
		}
		return types.ContextLoadProgressMsg{
			Context: p.Context,
			Message: p.Message,
			Phase:   int(p.Phase),
		}
	}
}

// cycleContext switches to the neighbouring context in name order.
func (m Model) cycleContext(step int) tea.Cmd {
	if m.appCtx.Contexts == nil {
		return nil
	}
	contexts, err := m.appCtx.Contexts.GetContexts()
	if err != nil || len(contexts) < 2 {
		return nil
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i].Name < contexts[j].Name })

	current := 0
	for i, ctx := range contexts {
		if ctx.Name == m.state.ActiveContext {
			current = i
			break
		}
	}
	next := contexts[(current+step+len(contexts))%len(contexts)].Name

	return func() tea.Msg {
		return types.ContextSwitchMsg{ContextName: next}
	}
}

// pushNavigationHistory saves the current screen and its filters onto the
// back stack, dropping the oldest entry past the cap.
func (m *Model) pushNavigationHistory() {
	state := NavigationState{ScreenID: m.state.CurrentScreen}
	if configScreen, ok := m.currentScreen.(*screens.ConfigScreen); ok {
		state.FilterContext = configScreen.GetFilterContext()
		state.Filter = configScreen.GetFilter()
	}

	m.navigationHistory = append(m.navigationHistory, state)
	if len(m.navigationHistory) > MaxNavigationHistorySize {
		m.navigationHistory = m.navigationHistory[len(m.navigationHistory)-MaxNavigationHistorySize:]
	}
}

// popNavigationHistory returns a command restoring the most recent back
// stack entry, or nil when there is nowhere to go back to.
func (m *Model) popNavigationHistory() tea.Cmd {
	if len(m.navigationHistory) == 0 {
		return nil
	}

	last := m.navigationHistory[len(m.navigationHistory)-1]
	m.navigationHistory = m.navigationHistory[:len(m.navigationHistory)-1]

	return func() tea.Msg {
		return types.ScreenSwitchMsg{
			ScreenID:         last.ScreenID,
			FilterContext:    last.FilterContext,
			CommandBarFilter: last.Filter,
			IsBackNav:        true,
		}
	}
}

// resizeBody re-fits the active screen under the chrome. The command bar
// height changes as it opens and closes, so this runs after every bar
// update.
func (m Model) resizeBody() {
	bodyHeight := m.layout.CalculateBodyHeightWithCommandBar(m.commandBar.GetTotalHeight())
	if withSize, ok := m.currentScreen.(interface{ SetSize(int, int) }); ok {
		withSize.SetSize(m.state.Width, bodyHeight)
	}
}

// screenResourceType reports the kind a screen subscribes to. Screens
// rendering derived data report the empty type and never hold a
// subscription.
func screenResourceType(s types.Screen) k8s.ResourceType {
	if withType, ok := s.(interface{ ResourceType() k8s.ResourceType }); ok {
		return withType.ResourceType()
	}
	return ""
}

func switchScreenCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return types.ScreenSwitchMsg{ScreenID: id, PushHistory: true}
	}
}
