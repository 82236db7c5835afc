package commandbar

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/vigia/internal/commands"
	"github.com/renato0307/vigia/internal/types"
)

func newTestBar() *CommandBar {
	return New(newTestContext())
}

func pressKey(cb *CommandBar, key tea.KeyType) (*CommandBar, tea.Cmd) {
	return cb.Update(tea.KeyMsg{Type: key})
}

func typeChars(cb *CommandBar, text string) (*CommandBar, tea.Cmd) {
	var cmd tea.Cmd
	for _, r := range text {
		cb, cmd = cb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return cb, cmd
}

func TestCommandBar_New(t *testing.T) {
	cb := newTestBar()

	assert.Equal(t, StateHidden, cb.GetState())
	assert.False(t, cb.IsActive())
	assert.Equal(t, 0, cb.GetHeight())
	assert.Equal(t, 3, cb.GetTotalHeight(), "hidden bar still shows the hint block")
	assert.NotNil(t, cb.Init(), "Init schedules tip rotation")
}

func TestCommandBar_FilterTyping(t *testing.T) {
	cb := newTestBar()

	cb, cmd := typeChars(cb, "n")
	assert.Equal(t, StateFilter, cb.GetState())
	assert.True(t, cb.IsActive())
	require.NotNil(t, cmd)
	assert.Equal(t, types.FilterUpdateMsg{Filter: "n"}, cmd())

	cb, cmd = typeChars(cb, "g")
	require.NotNil(t, cmd)
	assert.Equal(t, types.FilterUpdateMsg{Filter: "ng"}, cmd())

	// Backspacing to empty clears the filter and hides the bar
	cb, cmd = pressKey(cb, tea.KeyBackspace)
	require.NotNil(t, cmd)
	assert.Equal(t, types.FilterUpdateMsg{Filter: "n"}, cmd())

	cb, cmd = pressKey(cb, tea.KeyBackspace)
	assert.Equal(t, StateHidden, cb.GetState())
	require.NotNil(t, cmd)
	assert.Equal(t, types.ClearFilterMsg{}, cmd())
}

func TestCommandBar_FilterEnterKeepsFilter(t *testing.T) {
	cb := newTestBar()

	cb, _ = typeChars(cb, "api")
	cb, cmd := pressKey(cb, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, StateHidden, cb.GetState())
	assert.Equal(t, "api", cb.GetInput(), "accepted filter stays applied")

	// esc while hidden clears the accepted filter
	cb, cmd = pressKey(cb, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, types.ClearFilterMsg{}, cmd())
	assert.Equal(t, "", cb.GetInput())
}

func TestCommandBar_SpaceDoesNotStartFilter(t *testing.T) {
	cb := newTestBar()

	cb, cmd := typeChars(cb, " ")
	assert.Equal(t, StateHidden, cb.GetState())
	assert.Nil(t, cmd)
}

func TestCommandBar_PasteStartsFilter(t *testing.T) {
	cb := newTestBar()

	cb, cmd := cb.Update(tea.KeyMsg{Paste: true, Runes: []rune("nginx")})
	assert.Equal(t, StateFilter, cb.GetState())
	require.NotNil(t, cmd)
	assert.Equal(t, types.FilterUpdateMsg{Filter: "nginx"}, cmd())
}

func TestCommandBar_OpenResourcePalette(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("pods")

	cb, _ = typeChars(cb, ":")
	assert.Equal(t, StateSuggestionPalette, cb.GetState())
	assert.Equal(t, CommandTypeResource, cb.GetInputType())
	assert.False(t, cb.palette.IsEmpty())
	assert.Contains(t, cb.ViewPaletteItems(), "▶")

	// esc dismisses
	cb, _ = pressKey(cb, tea.KeyEsc)
	assert.Equal(t, StateHidden, cb.GetState())
	assert.True(t, cb.palette.IsEmpty())
}

func TestCommandBar_PaletteEnterNavigates(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("pods")

	cb, _ = typeChars(cb, ":")
	cb, cmd := pressKey(cb, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	switchMsg, ok := msg.(types.ScreenSwitchMsg)
	require.True(t, ok, "palette enter should emit a screen switch, got %T", msg)
	assert.Equal(t, "contexts", switchMsg.ScreenID)
	assert.True(t, switchMsg.PushHistory)

	assert.Equal(t, StateHidden, cb.GetState())
	assert.Equal(t, 1, cb.history.Size())
}

func TestCommandBar_PaletteTabCompletes(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("pods")

	cb, _ = typeChars(cb, "/")
	cb, _ = pressKey(cb, tea.KeyTab)

	assert.Equal(t, StateInput, cb.GetState())
	assert.Equal(t, "/yaml ", cb.GetInput(), "tab completes the selection with a space for args")
}

func TestCommandBar_TypedActionExecutes(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("pods")
	cb.SetSelectedResource(map[string]any{
		"name":      "nginx-deployment-7d64f8d9c8-abc12",
		"namespace": "default",
	})

	cb, _ = typeChars(cb, "/yaml")
	cb, cmd := pressKey(cb, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	fullScreen, ok := msg.(types.ShowFullScreenMsg)
	require.True(t, ok, "expected fullscreen content, got %T", msg)
	assert.Equal(t, types.FullScreenYAML, fullScreen.ViewType)

	assert.Equal(t, StateHidden, cb.GetState())
}

func TestCommandBar_ConfirmationCancel(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("deployments")
	cb.SetSelectedResource(map[string]any{
		"name":      "nginx-deployment",
		"namespace": "default",
	})

	cb, _ = typeChars(cb, "/delete")
	cb, cmd := pressKey(cb, tea.KeyEnter)
	assert.Nil(t, cmd, "destructive command must not run before confirmation")
	assert.Equal(t, StateConfirmation, cb.GetState())
	assert.Contains(t, cb.View(), "Confirm Action")
	assert.Contains(t, cb.View(), "/delete")

	cb, cmd = pressKey(cb, tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.Equal(t, StateHidden, cb.GetState())
	assert.False(t, cb.executor.HasPending())
	assert.Equal(t, 0, cb.history.Size(), "cancelled commands stay out of history")
}

func TestCommandBar_ConfirmationExecute(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("deployments")
	cb.SetSelectedResource(map[string]any{
		"name":      "nginx-deployment",
		"namespace": "default",
	})

	cb, _ = typeChars(cb, "/delete")
	cb, _ = pressKey(cb, tea.KeyEnter)
	require.Equal(t, StateConfirmation, cb.GetState())

	cb, cmd := pressKey(cb, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	statusMsg, ok := msg.(types.StatusMsg)
	require.True(t, ok, "expected a status message, got %T", msg)
	assert.Equal(t, types.MessageTypeSuccess, statusMsg.Type)
	assert.Contains(t, statusMsg.Message, "nginx-deployment")
	assert.True(t, statusMsg.TrackInHistory)
	require.NotNil(t, statusMsg.HistoryMetadata)
	assert.Equal(t, "/delete", statusMsg.HistoryMetadata.Command)

	assert.Equal(t, StateHidden, cb.GetState())
	assert.Equal(t, []string{"/delete"}, cb.history.entries)
}

func TestCommandBar_ConfirmationKeepsArgs(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("deployments")
	cb.SetSelectedResource(map[string]any{
		"name":      "nginx-deployment",
		"namespace": "default",
	})

	cb, _ = typeChars(cb, "/scale 3")
	cb, _ = pressKey(cb, tea.KeyEnter)
	require.Equal(t, StateConfirmation, cb.GetState())
	assert.Contains(t, cb.View(), "/scale 3")

	cb, cmd := pressKey(cb, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	statusMsg, ok := msg.(types.StatusMsg)
	require.True(t, ok, "expected a status message, got %T", msg)
	assert.Equal(t, types.MessageTypeSuccess, statusMsg.Type)
	assert.Contains(t, statusMsg.Message, "3 replicas")

	assert.Equal(t, []string{"/scale 3"}, cb.history.entries)
}

func TestCommandBar_UnknownCommand(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("pods")

	cb, _ = typeChars(cb, "/frobnicate now")
	cb, cmd := pressKey(cb, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	statusMsg, ok := msg.(types.StatusMsg)
	require.True(t, ok, "expected a status message, got %T", msg)
	assert.Equal(t, types.MessageTypeError, statusMsg.Type)
	assert.Contains(t, statusMsg.Message, "/frobnicate")

	assert.Equal(t, StateHidden, cb.GetState())
}

func TestCommandBar_InputHistoryRecall(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("deployments")
	cb.SetSelectedResource(map[string]any{
		"name":      "nginx-deployment",
		"namespace": "default",
	})

	// Execute a command so history has an entry
	cb, _ = typeChars(cb, "/scale 3")
	cb, _ = pressKey(cb, tea.KeyEnter)
	cb, _ = pressKey(cb, tea.KeyEnter)
	require.Equal(t, 1, cb.history.Size())

	// Tab into input mode and recall it
	cb, _ = typeChars(cb, "/")
	cb, _ = pressKey(cb, tea.KeyTab)
	cb, _ = pressKey(cb, tea.KeyUp)
	assert.Equal(t, "/scale 3", cb.GetInput())

	// Down past the most recent clears the input
	cb, _ = pressKey(cb, tea.KeyDown)
	assert.Equal(t, "", cb.GetInput())
}

func TestCommandBar_ExecuteCommand(t *testing.T) {
	cb := newTestBar()
	cb.SetScreen("pods")
	cb.SetSelectedResource(map[string]any{
		"name":      "nginx-deployment-7d64f8d9c8-abc12",
		"namespace": "default",
	})

	// Shortcut dispatch without confirmation runs immediately
	cb, cmd := cb.ExecuteCommand("yaml", commands.CategoryAction)
	require.NotNil(t, cmd)
	assert.Equal(t, StateHidden, cb.GetState())

	// Destructive shortcut still stops at confirmation
	cb, cmd = cb.ExecuteCommand("delete", commands.CategoryAction)
	assert.Nil(t, cmd)
	assert.Equal(t, StateConfirmation, cb.GetState())
	assert.Contains(t, cb.View(), "/delete")

	cb, cmd = pressKey(cb, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"/delete"}, cb.history.entries)
}

func TestCommandBar_RestoreFilter(t *testing.T) {
	cb := newTestBar()

	assert.Nil(t, cb.RestoreFilter(""))

	cmd := cb.RestoreFilter("api")
	require.NotNil(t, cmd)
	assert.Equal(t, types.FilterUpdateMsg{Filter: "api"}, cmd())
	assert.Equal(t, StateFilter, cb.GetState())
	assert.Equal(t, "api", cb.GetInput())
}

func TestCommandBar_ViewHints_ShowsTipWhenHidden(t *testing.T) {
	cb := newTestBar()

	hints := cb.ViewHints()
	assert.NotEqual(t, "", hints)
	assert.Contains(t, hints, "type to filter")
}

func TestCommandBar_ViewHints_EmptyWhenActive(t *testing.T) {
	cb := newTestBar()
	cb.state = StateFilter

	assert.Equal(t, "", cb.ViewHints())
}

func TestCommandBar_TipRotation(t *testing.T) {
	cb := newTestBar()

	assert.Equal(t, 0, cb.currentTipIndex)

	cb, cmd := cb.Update(tipRotationMsg(time.Now()))

	assert.NotEqual(t, 0, cb.currentTipIndex, "should rotate to a different tip")
	assert.GreaterOrEqual(t, cb.currentTipIndex, 0)
	assert.Less(t, cb.currentTipIndex, len(usageTips))

	assert.NotNil(t, cmd, "rotation schedules the next one")
}

func TestCommandBar_TipRotation_AvoidsDuplicate(t *testing.T) {
	cb := newTestBar()
	cb.currentTipIndex = 5

	for i := 0; i < 10; i++ {
		oldIndex := cb.currentTipIndex
		cb, _ = cb.Update(tipRotationMsg(time.Now()))

		assert.NotEqual(t, oldIndex, cb.currentTipIndex,
			"should not show the same tip twice in a row (iteration %d)", i)
	}
}

func TestCommandBar_TipContent(t *testing.T) {
	tests := []struct {
		name          string
		tipIndex      int
		shouldContain string
	}{
		{"key reference", 0, "type to filter"},
		{"drill down tip", 1, "Enter on resources"},
		{"yaml shortcut tip", 2, "ctrl+y"},
		{"quit tip", 3, "quit"},
		{"context cycling tip", 4, "ctrl+n/p"},
		{"output screen tip", 5, ":output"},
		{"filter negation tip", 6, "!Running"},
		{"fuzzy filter tip", 7, "matches any part"},
		{"context flag tip", 9, "-context to load"},
		{"multiple contexts tip", 10, "multiple -context"},
		{"theme flag tip", 11, "-theme"},
		{"refresh tip", 14, "refresh automatically"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := newTestBar()
			cb.currentTipIndex = tt.tipIndex

			assert.Contains(t, cb.ViewHints(), tt.shouldContain)
		})
	}
}

func TestCommandBar_TipsArrayValid(t *testing.T) {
	assert.Greater(t, len(usageTips), 0)

	// The key reference always comes first
	assert.Contains(t, usageTips[0], "type to filter")

	for i, tip := range usageTips {
		assert.NotEqual(t, "", tip, "tip at index %d should not be empty", i)
	}
}
