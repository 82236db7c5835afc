package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/types"
)

// Navigation handlers turn Enter on a selected row into a screen switch
// carrying a FilterContext. The target screen resolves the context against
// the cache on its next refresh; nothing is queried here.

// navigateToPodsForOwner drills from a workload screen into the pods it
// owns. The kind goes into the context metadata so the pods screen knows
// which relationship query to run.
func navigateToPodsForOwner(kind string) NavigationFunc {
	return func(screen *ConfigScreen) tea.Cmd {
		selected := screen.GetSelectedResource()
		if selected == nil {
			return nil
		}

		name, _ := selected["name"].(string)
		namespace, _ := selected["namespace"].(string)
		if name == "" {
			return nil
		}

		return switchTo("pods", &types.FilterContext{
			Field: "owner",
			Value: name,
			Metadata: map[string]string{
				"namespace": namespace,
				"kind":      kind,
			},
		})
	}
}

// navigateToPodsForService drills from a service into the pods its
// selector matches.
func navigateToPodsForService() NavigationFunc {
	return func(screen *ConfigScreen) tea.Cmd {
		selected := screen.GetSelectedResource()
		if selected == nil {
			return nil
		}

		name, _ := selected["name"].(string)
		namespace, _ := selected["namespace"].(string)
		if name == "" {
			return nil
		}

		return switchTo("pods", &types.FilterContext{
			Field: "selector",
			Value: name,
			Metadata: map[string]string{
				"namespace": namespace,
				"kind":      "Service",
			},
		})
	}
}

// navigateToPodsForNode drills from a node into the pods scheduled on it
func navigateToPodsForNode() NavigationFunc {
	return func(screen *ConfigScreen) tea.Cmd {
		selected := screen.GetSelectedResource()
		if selected == nil {
			return nil
		}

		name, _ := selected["name"].(string)
		if name == "" {
			return nil
		}

		return switchTo("pods", &types.FilterContext{
			Field: "node",
			Value: name,
			Metadata: map[string]string{
				"kind": "Node",
			},
		})
	}
}

// navigateToPodsForNamespace drills from a namespace into its pods
func navigateToPodsForNamespace() NavigationFunc {
	return func(screen *ConfigScreen) tea.Cmd {
		selected := screen.GetSelectedResource()
		if selected == nil {
			return nil
		}

		name, _ := selected["name"].(string)
		if name == "" {
			return nil
		}

		return switchTo("pods", &types.FilterContext{
			Field: "namespace",
			Value: name,
			Metadata: map[string]string{
				"kind": "Namespace",
			},
		})
	}
}

// navigateToPodsForVolumeSource drills from a ConfigMap or Secret into the
// pods mounting or referencing it.
func navigateToPodsForVolumeSource(kind string) NavigationFunc {
	return func(screen *ConfigScreen) tea.Cmd {
		selected := screen.GetSelectedResource()
		if selected == nil {
			return nil
		}

		name, _ := selected["name"].(string)
		namespace, _ := selected["namespace"].(string)
		if name == "" {
			return nil
		}

		return switchTo("pods", &types.FilterContext{
			Field: strings.ToLower(kind),
			Value: name,
			Metadata: map[string]string{
				"namespace": namespace,
				"kind":      kind,
			},
		})
	}
}

// navigateToJobsForCronJob drills from a cronjob into the jobs it spawned.
// The target is the jobs screen, not pods.
func navigateToJobsForCronJob() NavigationFunc {
	return func(screen *ConfigScreen) tea.Cmd {
		selected := screen.GetSelectedResource()
		if selected == nil {
			return nil
		}

		name, _ := selected["name"].(string)
		namespace, _ := selected["namespace"].(string)
		if name == "" {
			return nil
		}

		return switchTo("jobs", &types.FilterContext{
			Field: "owner",
			Value: name,
			Metadata: map[string]string{
				"namespace": namespace,
				"kind":      "CronJob",
			},
		})
	}
}

// navigateToContextSwitch makes Enter on the contexts screen switch to the
// selected context.
func navigateToContextSwitch() NavigationFunc {
	return func(screen *ConfigScreen) tea.Cmd {
		selected := screen.GetSelectedResource()
		if selected == nil {
			return nil
		}

		name, _ := selected["name"].(string)
		if name == "" {
			return nil
		}
		if current, _ := selected["current"].(string); current != "" {
			return func() tea.Msg {
				return types.InfoMsg("Already on context " + name)
			}
		}

		return func() tea.Msg {
			return types.ContextSwitchMsg{ContextName: name}
		}
	}
}

func switchTo(screenID string, fc *types.FilterContext) tea.Cmd {
	return func() tea.Msg {
		return types.ScreenSwitchMsg{
			ScreenID:      screenID,
			FilterContext: fc,
			PushHistory:   true,
		}
	}
}
