package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/messages"
	"github.com/renato0307/vigia/internal/types"
)

// ScaleArgs defines arguments for the scale command
type ScaleArgs struct {
	Replicas int `form:"replicas" title:"Replicas" validate:"min=0,max=1000"`
}

// actionMetadata builds the history record for a mutating command. Duration
// is filled in by the command closure once the API call returns.
func actionMetadata(provider k8s.KubeconfigProvider, cmdCtx CommandContext, info ResourceInfo) *types.CommandMetadata {
	return &types.CommandMetadata{
		Command:      cmdCtx.Command,
		Context:      provider.GetContext(),
		ResourceType: string(cmdCtx.ResourceType),
		ResourceName: info.Name,
		Namespace:    info.Namespace,
		Timestamp:    time.Now(),
	}
}

// YamlCommand returns execute function for viewing resource YAML
func YamlCommand(formatter k8s.ResourceFormatter) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No resource selected")
		}

		gvr, ok := k8s.GetGVRForResourceType(cmdCtx.ResourceType)
		if !ok {
			return messages.ErrorCmd("Unknown resource type: %s", cmdCtx.ResourceType)
		}

		// Fetch inside the returned command so the API round-trip never
		// blocks the update loop.
		return func() tea.Msg {
			content, err := formatter.GetResourceYAML(gvr, info.Namespace, info.Name)
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to get YAML: %v", err))
			}
			return types.ShowFullScreenMsg{
				ViewType:     types.FullScreenYAML,
				ResourceName: info.DisplayName(),
				Content:      content,
			}
		}
	}
}

// DescribeCommand returns execute function for viewing describe output
func DescribeCommand(formatter k8s.ResourceFormatter) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No resource selected")
		}

		gvr, ok := k8s.GetGVRForResourceType(cmdCtx.ResourceType)
		if !ok {
			return messages.ErrorCmd("Unknown resource type: %s", cmdCtx.ResourceType)
		}

		return func() tea.Msg {
			content, err := formatter.DescribeResource(gvr, info.Namespace, info.Name)
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to describe resource: %v", err))
			}
			return types.ShowFullScreenMsg{
				ViewType:     types.FullScreenDescribe,
				ResourceName: info.DisplayName(),
				Content:      content,
			}
		}
	}
}

// DeleteCommand returns execute function for deleting a resource
func DeleteCommand(provider k8s.DataProvider) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No resource selected")
		}

		metadata := actionMetadata(provider, cmdCtx, info)
		return messages.WithHistory(func() tea.Msg {
			start := time.Now()
			ctx, cancel := context.WithTimeout(context.Background(), ActionTimeout)
			defer cancel()

			err := provider.DeleteResource(ctx, cmdCtx.ResourceType, info.Namespace, info.Name)
			metadata.Duration = time.Since(start)
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Delete failed: %v", err))
			}
			return types.SuccessMsg(fmt.Sprintf("Deleted %s/%s", cmdCtx.ResourceType, info.DisplayName()))
		}, metadata)
	}
}

// ScaleCommand returns execute function for scaling a workload's replicas
func ScaleCommand(provider k8s.DataProvider) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		var args ScaleArgs
		if err := cmdCtx.ParseArgs(&args); err != nil {
			return messages.ErrorCmd("Invalid args: %v", err)
		}

		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No resource selected")
		}

		metadata := actionMetadata(provider, cmdCtx, info)
		return messages.WithHistory(func() tea.Msg {
			start := time.Now()
			ctx, cancel := context.WithTimeout(context.Background(), ActionTimeout)
			defer cancel()

			err := provider.ScaleResource(ctx, cmdCtx.ResourceType, info.Namespace, info.Name, int32(args.Replicas))
			metadata.Duration = time.Since(start)
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Scale failed: %v", err))
			}
			return types.SuccessMsg(fmt.Sprintf("Scaled %s/%s to %d replicas", cmdCtx.ResourceType, info.DisplayName(), args.Replicas))
		}, metadata)
	}
}

// RestartCommand returns execute function for a rolling restart of a workload
func RestartCommand(provider k8s.DataProvider) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No resource selected")
		}

		metadata := actionMetadata(provider, cmdCtx, info)
		return messages.WithHistory(func() tea.Msg {
			start := time.Now()
			ctx, cancel := context.WithTimeout(context.Background(), ActionTimeout)
			defer cancel()

			err := provider.RestartResource(ctx, cmdCtx.ResourceType, info.Namespace, info.Name)
			metadata.Duration = time.Since(start)
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Restart failed: %v", err))
			}
			return types.SuccessMsg(fmt.Sprintf("Restarted %s/%s", cmdCtx.ResourceType, info.DisplayName()))
		}, metadata)
	}
}

// CopyNameCommand returns execute function for copying the resource name
func CopyNameCommand() ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No resource selected")
		}

		return func() tea.Msg {
			msg, err := CopyToClipboard(info.Name, fmt.Sprintf("Copied %q to clipboard", info.Name))
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to copy: %v", err))
			}
			return types.InfoMsg(msg)
		}
	}
}

// CopyYamlCommand returns execute function for copying the resource YAML
func CopyYamlCommand(formatter k8s.ResourceFormatter) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No resource selected")
		}

		gvr, ok := k8s.GetGVRForResourceType(cmdCtx.ResourceType)
		if !ok {
			return messages.ErrorCmd("Unknown resource type: %s", cmdCtx.ResourceType)
		}

		return func() tea.Msg {
			content, err := formatter.GetResourceYAML(gvr, info.Namespace, info.Name)
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to get YAML: %v", err))
			}
			msg, err := CopyToClipboard(content, fmt.Sprintf("Copied YAML for %s to clipboard", info.DisplayName()))
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to copy: %v", err))
			}
			return types.InfoMsg(msg)
		}
	}
}
