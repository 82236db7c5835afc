package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout stacks the chrome around the screen body: header on top, status
// line, command bar, palette items and hints at the bottom. The body gets
// whatever height remains.
type Layout struct {
	width  int
	height int
}

func NewLayout(width, height int) *Layout {
	return &Layout{
		width:  width,
		height: height,
	}
}

func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// CalculateBodyHeightWithCommandBar returns the body height given the
// command bar's current total height. The bar grows and shrinks as it moves
// through its states, so this is recalculated on every bar transition.
func (l *Layout) CalculateBodyHeightWithCommandBar(commandBarHeight int) int {
	reserved := HeaderHeight + StatusBarHeight + commandBarHeight
	bodyHeight := l.height - reserved
	if bodyHeight < MinBodyHeight {
		bodyHeight = MinBodyHeight
	}
	return bodyHeight
}

// Render builds the full frame. Empty sections are skipped, except the
// status line which always occupies its row.
func (l *Layout) Render(header, body, status, commandBar, paletteItems, hints string) string {
	sections := []string{}

	if header != "" {
		sections = append(sections, header)
	}

	if body != "" {
		sections = append(sections, body)
	}

	sections = append(sections, status)

	if commandBar != "" {
		sections = append(sections, commandBar)
	}

	if paletteItems != "" {
		sections = append(sections, paletteItems)
	}

	if hints != "" {
		sections = append(sections, hints)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
