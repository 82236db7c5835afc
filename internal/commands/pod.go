package commands

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/messages"
	"github.com/renato0307/vigia/internal/types"
)

// ShellArgs defines arguments for shell command
type ShellArgs struct {
	Container string `form:"container" title:"Container" optional:"true"`
	Shell     string `form:"shell" title:"Shell" default:"/bin/sh" optional:"true"`
}

// LogsArgs defines arguments for logs command
type LogsArgs struct {
	Container string `form:"container" title:"Container" optional:"true"`
	Tail      int    `form:"tail" title:"Tail Lines" default:"100" optional:"true" validate:"min=0"`
}

// PortForwardArgs defines arguments for port-forward command
type PortForwardArgs struct {
	Ports string `form:"ports" title:"Port Mapping (local:remote)" validate:"required"`
}

// LogsCommand returns execute function for viewing pod logs fullscreen
func LogsCommand(provider k8s.DataProvider) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		var args LogsArgs
		if err := cmdCtx.ParseArgs(&args); err != nil {
			return messages.ErrorCmd("Invalid args: %v", err)
		}

		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No pod selected")
		}

		title := info.DisplayName()
		if args.Container != "" {
			title += " [" + args.Container + "]"
		}

		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), ActionTimeout)
			defer cancel()

			content, err := provider.GetPodLogs(ctx, info.Namespace, info.Name, args.Container, int64(args.Tail))
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to get logs: %v", err))
			}
			if strings.TrimSpace(content) == "" {
				content = "(no log output)"
			}
			return types.ShowFullScreenMsg{
				ViewType:     types.FullScreenLogs,
				ResourceName: title,
				Content:      content,
			}
		}
	}
}

// ShellCommand returns execute function for opening shell in pod (clipboard mode)
func ShellCommand(provider k8s.KubeconfigProvider) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		var args ShellArgs
		if err := cmdCtx.ParseArgs(&args); err != nil {
			return messages.ErrorCmd("Invalid args: %v", err)
		}

		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No pod selected")
		}

		// Build kubectl exec command
		var kubectlCmd strings.Builder
		kubectlCmd.WriteString("kubectl exec -it ")
		kubectlCmd.WriteString(info.Name)
		kubectlCmd.WriteString(" --namespace ")
		kubectlCmd.WriteString(info.Namespace)

		if args.Container != "" {
			kubectlCmd.WriteString(" -c ")
			kubectlCmd.WriteString(args.Container)
		}

		if provider.GetKubeconfig() != "" {
			kubectlCmd.WriteString(" --kubeconfig ")
			kubectlCmd.WriteString(provider.GetKubeconfig())
		}
		if provider.GetContext() != "" {
			kubectlCmd.WriteString(" --context ")
			kubectlCmd.WriteString(provider.GetContext())
		}

		kubectlCmd.WriteString(" -- ")
		kubectlCmd.WriteString(args.Shell)

		command := kubectlCmd.String()

		return func() tea.Msg {
			msg, err := CopyToClipboard(command, fmt.Sprintf("Shell command copied to clipboard: %s", command))
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to copy: %v", err))
			}
			return types.InfoMsg(msg)
		}
	}
}

// PortForwardCommand returns execute function for port forwarding to pod (clipboard mode)
func PortForwardCommand(provider k8s.KubeconfigProvider) ExecuteFunc {
	return func(cmdCtx CommandContext) tea.Cmd {
		var args PortForwardArgs
		if err := cmdCtx.ParseArgs(&args); err != nil {
			return messages.ErrorCmd("Invalid args: %v", err)
		}

		info := cmdCtx.GetResourceInfo()
		if info.Name == "" {
			return messages.ErrorCmd("No pod selected")
		}

		// Build kubectl port-forward command
		var kubectlCmd strings.Builder
		kubectlCmd.WriteString("kubectl port-forward ")
		kubectlCmd.WriteString(info.Name)
		kubectlCmd.WriteString(" --namespace ")
		kubectlCmd.WriteString(info.Namespace)
		kubectlCmd.WriteString(" ")
		kubectlCmd.WriteString(args.Ports)

		if provider.GetKubeconfig() != "" {
			kubectlCmd.WriteString(" --kubeconfig ")
			kubectlCmd.WriteString(provider.GetKubeconfig())
		}
		if provider.GetContext() != "" {
			kubectlCmd.WriteString(" --context ")
			kubectlCmd.WriteString(provider.GetContext())
		}

		command := kubectlCmd.String()

		return func() tea.Msg {
			msg, err := CopyToClipboard(command, fmt.Sprintf("Port-forward command copied to clipboard: %s", command))
			if err != nil {
				return types.ErrorStatusMsg(fmt.Sprintf("Failed to copy: %v", err))
			}
			return types.InfoMsg(msg)
		}
	}
}
