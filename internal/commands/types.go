package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/k8s"
)

// ResourceInfo contains identifying information about a Kubernetes resource
type ResourceInfo struct {
	Name      string
	Namespace string
	Kind      k8s.ResourceType
}

// CommandCategory represents the type of command
type CommandCategory int

const (
	CategoryResource CommandCategory = iota // : prefix (screen switching)
	CategoryAction                          // / prefix (yaml, describe, delete, logs)
)

// CommandContext provides context for command execution. Selected carries
// the highlighted row's fields keyed by lowercased field name, as produced
// by the screen's reflection walk.
type CommandContext struct {
	ResourceType k8s.ResourceType
	Selected     map[string]any
	Args         string // Inline argument string after the command name
	Command      string // Full command line as typed, recorded in action history
}

// GetResourceInfo extracts resource identification from the context
func (ctx *CommandContext) GetResourceInfo() ResourceInfo {
	name, _ := ctx.Selected["name"].(string)
	namespace, _ := ctx.Selected["namespace"].(string)
	if namespace == "" && k8s.IsNamespaced(ctx.ResourceType) {
		namespace = "default"
	}
	return ResourceInfo{
		Name:      name,
		Namespace: namespace,
		Kind:      ctx.ResourceType,
	}
}

// DisplayName returns "namespace/name" for namespaced resources, bare name
// otherwise.
func (info ResourceInfo) DisplayName() string {
	if info.Namespace == "" {
		return info.Name
	}
	return info.Namespace + "/" + info.Name
}

// ParseArgs parses the inline args string into a typed struct using reflection
// Usage: ctx.ParseArgs(&myArgsStruct)
func (ctx *CommandContext) ParseArgs(dest any) error {
	return ParseInlineArgs(dest, ctx.Args)
}

// ExecuteFunc is a function that executes a command and returns a Bubble Tea command
type ExecuteFunc func(ctx CommandContext) tea.Cmd

// Command represents a command in the palette
type Command struct {
	Name              string             // Short command name (e.g., "pods", "yaml")
	Description       string             // Human-readable description
	Category          CommandCategory    // Command category
	NeedsConfirmation bool               // Whether the command requires confirmation
	Execute           ExecuteFunc        // Execution function
	ResourceTypes     []k8s.ResourceType // Resource types this command applies to (empty = all)
	Shortcut          string             // Keyboard shortcut (e.g., "ctrl+y")
	ArgPattern        string             // Display pattern for palette (e.g., " <replicas>")
}
