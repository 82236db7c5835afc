package commands

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/renato0307/vigia/internal/k8s"
)

// Registry holds all available commands and provides filtering
type Registry struct {
	commands []Command
}

// screenTargets lists the screens reachable through : commands, in palette order.
var screenTargets = []struct {
	ID          string
	Description string
}{
	{"contexts", "Switch to Contexts screen"},
	{"pods", "Switch to Pods screen"},
	{"deployments", "Switch to Deployments screen"},
	{"services", "Switch to Services screen"},
	{"configmaps", "Switch to ConfigMaps screen"},
	{"secrets", "Switch to Secrets screen"},
	{"namespaces", "Switch to Namespaces screen"},
	{"statefulsets", "Switch to StatefulSets screen"},
	{"daemonsets", "Switch to DaemonSets screen"},
	{"replicasets", "Switch to ReplicaSets screen"},
	{"jobs", "Switch to Jobs screen"},
	{"cronjobs", "Switch to CronJobs screen"},
	{"nodes", "Switch to Nodes screen"},
	{"status", "Switch to Sync Status screen"},
	{"output", "Switch to Command Output screen"},
	{"help", "Switch to Help screen"},
}

// NewRegistry creates a new command registry with default commands.
// The provider executes actions against the active cluster; the formatter
// renders YAML and describe views.
func NewRegistry(provider k8s.DataProvider, formatter k8s.ResourceFormatter) *Registry {
	commands := make([]Command, 0, len(screenTargets)+16)

	// Navigation commands (: prefix)
	for _, target := range screenTargets {
		commands = append(commands, Command{
			Name:        target.ID,
			Description: target.Description,
			Category:    CategoryResource,
			Execute:     NavigationCommand(target.ID),
		})
	}
	commands = append(commands, Command{
		Name:        "quit",
		Description: "Quit the application",
		Category:    CategoryResource,
		Execute:     QuitCommand(),
	})

	// Action commands (/ prefix)
	commands = append(commands,
		Command{
			Name:          "yaml",
			Description:   "View resource YAML",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{}, // Applies to all resource types
			Shortcut:      "ctrl+y",
			Execute:       YamlCommand(formatter),
		},
		Command{
			Name:          "describe",
			Description:   "View resource details",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{}, // Applies to all resource types
			Shortcut:      "ctrl+d",
			Execute:       DescribeCommand(formatter),
		},
		Command{
			Name:          "copy",
			Description:   "Copy resource name to clipboard",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{},
			Execute:       CopyNameCommand(),
		},
		Command{
			Name:          "copy-yaml",
			Description:   "Copy resource YAML to clipboard",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{},
			Execute:       CopyYamlCommand(formatter),
		},
		Command{
			Name:              "delete",
			Description:       "Delete selected resource",
			Category:          CategoryAction,
			ResourceTypes:     []k8s.ResourceType{}, // Applies to all resource types
			Shortcut:          "ctrl+x",
			NeedsConfirmation: true,
			Execute:           DeleteCommand(provider),
		},
		Command{
			Name:          "logs",
			Description:   "View pod logs",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{k8s.ResourceTypePod},
			Shortcut:      "ctrl+l",
			ArgPattern:    " [container] [tail]",
			Execute:       LogsCommand(provider),
		},
		Command{
			Name:          "shell",
			Description:   "Open shell in pod (clipboard)",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{k8s.ResourceTypePod},
			ArgPattern:    " [container] [shell]",
			Execute:       ShellCommand(provider),
		},
		Command{
			Name:          "port-forward",
			Description:   "Port forward to pod (clipboard)",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{k8s.ResourceTypePod},
			ArgPattern:    " <local:remote>",
			Execute:       PortForwardCommand(provider),
		},
		Command{
			Name:        "scale",
			Description: "Scale replicas",
			Category:    CategoryAction,
			ResourceTypes: []k8s.ResourceType{
				k8s.ResourceTypeDeployment,
				k8s.ResourceTypeStatefulSet,
				k8s.ResourceTypeReplicaSet,
			},
			ArgPattern:        " <replicas>",
			NeedsConfirmation: true,
			Execute:           ScaleCommand(provider),
		},
		Command{
			Name:        "restart",
			Description: "Rolling restart of workload",
			Category:    CategoryAction,
			ResourceTypes: []k8s.ResourceType{
				k8s.ResourceTypeDeployment,
				k8s.ResourceTypeStatefulSet,
				k8s.ResourceTypeDaemonSet,
			},
			NeedsConfirmation: true,
			Execute:           RestartCommand(provider),
		},
		Command{
			Name:          "use",
			Description:   "Switch to selected context",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{k8s.ResourceTypeContext},
			ArgPattern:    " [context]",
			Execute:       ContextSwitchCommand(),
		},
		Command{
			Name:          "retry",
			Description:   "Retry failed context connection",
			Category:      CategoryAction,
			ResourceTypes: []k8s.ResourceType{k8s.ResourceTypeContext},
			Execute:       ContextRetryCommand(),
		},
	)

	return &Registry{commands: commands}
}

// GetByCategory returns all commands in a category
func (r *Registry) GetByCategory(category CommandCategory) []Command {
	result := []Command{}
	for _, cmd := range r.commands {
		if cmd.Category == category {
			result = append(result, cmd)
		}
	}
	return result
}

// Filter returns commands matching the query using fuzzy search
func (r *Registry) Filter(query string, category CommandCategory) []Command {
	// Get commands in category
	candidates := r.GetByCategory(category)

	// If query is empty, return all candidates
	if query == "" {
		return candidates
	}

	// Prepare data for fuzzy search
	names := make([]string, len(candidates))
	for i, cmd := range candidates {
		names[i] = cmd.Name
	}

	// Perform fuzzy search
	matches := fuzzy.Find(query, names)

	// Return matching commands in ranked order
	result := make([]Command, len(matches))
	for i, match := range matches {
		result[i] = candidates[match.Index]
	}

	return result
}

// FilterByResourceType returns commands that apply to the given resource type
// Empty resourceType returns all commands
func (r *Registry) FilterByResourceType(commands []Command, resourceType k8s.ResourceType) []Command {
	if resourceType == "" {
		return commands
	}

	// Generic commands (empty ResourceTypes) apply to every real Kubernetes
	// kind. Pseudo resources like contexts and the utility screens only get
	// commands explicitly scoped to them.
	_, isKind := k8s.GetGVRForResourceType(resourceType)

	result := []Command{}
	for _, cmd := range commands {
		if len(cmd.ResourceTypes) == 0 {
			if isKind {
				result = append(result, cmd)
			}
			continue
		}
		// Check if resourceType is in the list
		for _, rt := range cmd.ResourceTypes {
			if rt == resourceType {
				result = append(result, cmd)
				break
			}
		}
	}
	return result
}

// Get returns a command by name and category, or nil if not found
func (r *Registry) Get(name string, category CommandCategory) *Command {
	for _, cmd := range r.commands {
		if cmd.Category == category && strings.EqualFold(cmd.Name, name) {
			return &cmd
		}
	}
	return nil
}
