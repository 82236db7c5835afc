package commandbar

import (
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// usageTips rotate through the hint line while the bar is hidden. The
// first entry is the canonical key reference and is always shown first
// on startup; the rest surface one feature each.
var usageTips = []string{
	"[type to filter  : resources  / commands]",
	"Tip: Enter on resources drills down to what they own",
	"Tip: ctrl+y shows YAML for the selected resource",
	"Tip: :quit (or ctrl+c) quits",
	"Tip: ctrl+n/p switches between loaded contexts",
	"Tip: :output lists the results of recent commands",
	"Tip: start a filter with ! to negate it, e.g. !Running",
	"Tip: filters are fuzzy - the query matches any part of a row",
	"Tip: esc clears the filter first, then walks back through screens",
	"Tip: pass -context to load a context other than the current one",
	"Tip: pass multiple -context flags to keep several clusters warm",
	"Tip: -theme picks a color scheme, e.g. -theme dracula",
	"Tip: /scale <replicas> resizes deployments, statefulsets and replicasets",
	"Tip: ctrl+d describes the selected resource, kubectl style",
	"Tip: screens refresh automatically as cluster state changes",
}

// tipRotationMsg triggers a swap to a different usage tip.
type tipRotationMsg time.Time

// scheduleTipRotation returns the command that fires the next tip swap.
func scheduleTipRotation() tea.Cmd {
	return tea.Tick(tipRotationInterval, func(t time.Time) tea.Msg {
		return tipRotationMsg(t)
	})
}

// nextTipIndex picks a random tip index different from the current one,
// so the line visibly changes on every rotation.
func nextTipIndex(current int) int {
	if len(usageTips) < 2 {
		return current
	}
	next := rand.Intn(len(usageTips) - 1)
	if next >= current {
		next++
	}
	return next
}
