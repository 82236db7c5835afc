package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/messages"
	"github.com/renato0307/vigia/internal/types"
)

// ContextArgs defines arguments for context switch command
type ContextArgs struct {
	ContextName string `form:"context" title:"Context" optional:"true"`
}

// ContextSwitchCommand returns execute function for switching the active
// kubeconfig context. The target comes from the inline arg when given,
// otherwise from the selected row on the contexts screen.
func ContextSwitchCommand() ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		var args ContextArgs
		if err := cmdCtx.ParseArgs(&args); err != nil {
			return messages.ErrorCmd("Invalid args: %v", err)
		}

		target := args.ContextName
		if target == "" {
			target, _ = cmdCtx.Selected["name"].(string)
		}
		if target == "" {
			return messages.ErrorCmd("No context selected")
		}

		return func() tea.Msg {
			return types.ContextSwitchMsg{ContextName: target}
		}
	}
}

// ContextRetryCommand returns execute function for retrying a failed context
func ContextRetryCommand() ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		name, _ := cmdCtx.Selected["name"].(string)
		if name == "" {
			return messages.ErrorCmd("No context selected")
		}

		return func() tea.Msg {
			return types.ContextRetryMsg{ContextName: name}
		}
	}
}
