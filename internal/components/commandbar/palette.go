package commandbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/vigia/internal/commands"
	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/ui"
)

// Palette manages suggestion filtering, selection and rendering.
type Palette struct {
	items        []commands.Command
	index        int
	scrollOffset int // first visible item index
	registry     *commands.Registry
	theme        *ui.Theme
	width        int
}

// NewPalette creates a new palette manager.
func NewPalette(registry *commands.Registry, theme *ui.Theme, width int) *Palette {
	return &Palette{
		items:    []commands.Command{},
		registry: registry,
		theme:    theme,
		width:    width,
	}
}

// SetWidth updates the palette width.
func (p *Palette) SetWidth(width int) {
	p.width = width
}

// Filter fills the palette with commands matching the query. Action
// commands are narrowed to the ones that apply to the current screen,
// so a pods screen never suggests /scale and a contexts screen only
// offers its own commands.
func (p *Palette) Filter(query string, cmdType CommandType, screenID string) {
	var items []commands.Command

	switch cmdType {
	case CommandTypeResource:
		items = p.registry.Filter(query, commands.CategoryResource)

	case CommandTypeAction:
		items = p.registry.Filter(query, commands.CategoryAction)
		items = p.registry.FilterByResourceType(items, k8s.ResourceType(screenID))
	}

	p.items = items
	p.index = 0
	p.scrollOffset = 0
}

// NavigateUp moves the selection up, scrolling the viewport if needed.
func (p *Palette) NavigateUp() {
	if p.index > 0 {
		p.index--
		if p.index < p.scrollOffset {
			p.scrollOffset = p.index
		}
	}
}

// NavigateDown moves the selection down, scrolling the viewport if needed.
func (p *Palette) NavigateDown() {
	if p.index < len(p.items)-1 {
		p.index++
		if p.index > p.scrollOffset+MaxPaletteItems-1 {
			p.scrollOffset = p.index - MaxPaletteItems + 1
		}
	}
}

// GetSelected returns the selected command, or nil if the palette is empty.
func (p *Palette) GetSelected() *commands.Command {
	if p.index >= 0 && p.index < len(p.items) {
		return &p.items[p.index]
	}
	return nil
}

// IsEmpty returns true if the palette has no items.
func (p *Palette) IsEmpty() bool {
	return len(p.items) == 0
}

// Size returns the number of items in the palette.
func (p *Palette) Size() int {
	return len(p.items)
}

// Reset clears the palette.
func (p *Palette) Reset() {
	p.items = []commands.Command{}
	p.index = 0
	p.scrollOffset = 0
}

// GetHeight returns the number of rows the palette needs, 0 when empty.
func (p *Palette) GetHeight() int {
	if p.IsEmpty() {
		return 0
	}
	return min(len(p.items), MaxPaletteItems)
}

// View renders the visible window of items with the selection marker.
// Shortcuts are right-aligned past the longest command text so they read
// as a column.
func (p *Palette) View(prefix string) string {
	if p.IsEmpty() {
		return ""
	}

	visibleEnd := p.scrollOffset + min(MaxPaletteItems, len(p.items)-p.scrollOffset)

	// First pass: find the longest main text so shortcuts align.
	longest := 0
	for i := p.scrollOffset; i < visibleEnd; i++ {
		if l := len(p.mainText(prefix, p.items[i])); l > longest {
			longest = l
		}
	}
	shortcutColumn := longest + 10

	sections := make([]string, 0, visibleEnd-p.scrollOffset)
	for i := p.scrollOffset; i < visibleEnd; i++ {
		cmd := p.items[i]
		sections = append(sections, p.renderItem(prefix, cmd, shortcutColumn, i == p.index))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// mainText builds the left-hand text for an item: prefix, name, arg
// pattern and description.
func (p *Palette) mainText(prefix string, cmd commands.Command) string {
	text := prefix + cmd.Name
	if cmd.ArgPattern != "" {
		text += cmd.ArgPattern
	}
	return text + " - " + cmd.Description
}

// renderItem renders one palette row. The selected row gets an inverted
// highlight bar; on unselected rows the shortcut is dimmed separately.
func (p *Palette) renderItem(prefix string, cmd commands.Command, shortcutColumn int, selected bool) string {
	mainText := p.mainText(prefix, cmd)

	var spacer string
	if cmd.Shortcut != "" {
		spacer = strings.Repeat(" ", max(shortcutColumn-len(mainText), 2))
	}

	if selected {
		style := lipgloss.NewStyle().
			Foreground(p.theme.Background).
			Background(p.theme.Primary).
			Width(p.width).
			Padding(0, 1).
			Bold(true)
		return style.Render("▶ " + mainText + spacer + cmd.Shortcut)
	}

	content := mainText
	if cmd.Shortcut != "" {
		shortcutStyle := lipgloss.NewStyle().
			Foreground(p.theme.Dimmed)
		content += spacer + shortcutStyle.Render(cmd.Shortcut)
	}

	style := lipgloss.NewStyle().
		Foreground(p.theme.Foreground).
		Width(p.width).
		Padding(0, 1)
	return style.Render("  " + content)
}
