package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/vigia/internal/types"
	"github.com/renato0307/vigia/internal/ui"
)

// Header renders the top line: app name, active context, screen title,
// item count on the left and the last refresh age on the right.
type Header struct {
	appName     string
	context     string
	screenTitle string
	namespace   string
	itemCount   int
	lastRefresh time.Time
	width       int
	theme       *ui.Theme
}

func NewHeader(ctx *types.AppContext, appName string) *Header {
	return &Header{
		appName: appName,
		theme:   ctx.Theme,
	}
}

func (h *Header) SetContext(context string) {
	h.context = context
}

func (h *Header) SetScreenTitle(title string) {
	h.screenTitle = title
}

func (h *Header) SetNamespace(namespace string) {
	h.namespace = namespace
}

func (h *Header) SetItemCount(count int) {
	h.itemCount = count
}

func (h *Header) SetLastRefresh(t time.Time) {
	h.lastRefresh = t
}

func (h *Header) SetWidth(width int) {
	h.width = width
}

func (h *Header) View() string {
	title := h.theme.AppTitle.Padding(0, 1).Render(h.appName)

	infoStyle := lipgloss.NewStyle().Foreground(h.theme.Muted)

	// Left side: "Pods • context: dev • namespace: default • 47 items"
	leftParts := []string{}
	if h.screenTitle != "" {
		leftParts = append(leftParts, h.theme.Header.Render(h.screenTitle))
	}

	if h.context != "" {
		leftParts = append(leftParts, infoStyle.Render(fmt.Sprintf("context: %s", h.context)))
	}

	if h.namespace != "" {
		leftParts = append(leftParts, infoStyle.Render(fmt.Sprintf("namespace: %s", h.namespace)))
	}

	if h.itemCount > 0 {
		leftParts = append(leftParts, infoStyle.Render(fmt.Sprintf("%d items", h.itemCount)))
	}

	left := title
	if len(leftParts) > 0 {
		left += " " + strings.Join(leftParts, infoStyle.Render(" • "))
	}

	// Right side: "Last refresh: 2s ago"
	var right string
	if !h.lastRefresh.IsZero() {
		right = h.theme.StatusBar.Padding(0, 1).
			Render(fmt.Sprintf("Last refresh: %s", refreshAge(time.Since(h.lastRefresh))))
	}

	spacing := h.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	spacer := lipgloss.NewStyle().Width(spacing).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, right)
}

func refreshAge(elapsed time.Duration) string {
	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds ago", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}
}
