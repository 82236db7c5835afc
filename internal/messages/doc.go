// Package messages defines message handling patterns and conventions for the
// vigia application. This includes error, success, and info messages.
// Consistent messaging across layers keeps failures debuggable and the UI
// responses predictable.
//
// # Message Handling Patterns by Layer
//
// ## Engine Layer (internal/k8s)
//
// Return standard Go errors. The engine is a pure data layer and must not
// depend on UI concerns.
//
// Pattern:
//
//	func (s *Store) Snapshot(rt ResourceType) []Object { ... }
//
//	items, rev, err := c.List(ctx, rt)
//	if err != nil {
//	    return fmt.Errorf("failed to list %s: %w", rt, err)
//	}
//
// Use fmt.Errorf with %w to wrap errors and preserve the error chain. Always
// provide context about what operation failed. Helper available:
// messages.WrapError(err, "context") as a clearer alternative.
//
// Background loop errors (watch failures, malformed objects) never propagate
// as errors at all; they become subscription state and counters that the
// status screen renders.
//
// ## Command Layer (internal/commands)
//
// Return tea.Cmd that produces a StatusMsg. Commands execute in response to
// user actions and communicate results back through the Bubble Tea message
// queue.
//
// Pattern:
//
//	return func() tea.Msg {
//	    if err := client.Delete(ctx, rt, namespace, name); err != nil {
//	        return types.ErrorStatusMsg(fmt.Sprintf("Delete failed: %v", err))
//	    }
//	    return types.SuccessMsg("Deleted " + name)
//	}
//
// Use types.ErrorStatusMsg for errors, types.SuccessMsg for success, and
// types.InfoMsg for informational messages. Keep messages concise and
// user-friendly. Wrap with messages.WithHistory to record the outcome in the
// bounded action result buffer shown by the :output screen.
//
// ## UI Layer (internal/app, internal/components, internal/screens)
//
// Display errors via the StatusBar component. UI components do not format
// error messages - they receive pre-formatted StatusMsg from commands.
//
// Pattern:
//
//	case types.StatusMsg:
//	    m.statusBar.SetMessage(msg.Message, msg.Type)
//	    return m, tea.Tick(components.StatusBarDisplayDuration, func(t time.Time) tea.Msg {
//	        return types.ClearStatusMsg{}
//	    })
//
// The status bar automatically clears after StatusBarDisplayDuration. Status
// messages are color-coded: green for success, red for errors, blue for info.
//
// # Error Message Guidelines
//
// 1. Be specific: "Failed to scale deployment/nginx" not "Operation failed"
// 2. Include context: What operation failed, on what resource
// 3. User-friendly: no stack traces or transport details in UI messages
// 4. Actionable when possible: suggest what the user should check/fix
// 5. Consistent format: start with the verb describing what failed
//
// Good examples:
//   - "Scale failed: deployment/nginx not found"
//   - "Delete failed: insufficient permissions for nodes"
//
// Bad examples:
//   - "Error" (too vague)
//   - "panic: runtime error: invalid memory address" (too technical)
package messages
