package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/vigia/internal/types"
	"github.com/renato0307/vigia/internal/ui"
)

// FullScreen displays YAML, describe or log content over the whole
// terminal with keyboard scrolling.
type FullScreen struct {
	viewType     types.FullScreenViewType
	resourceName string
	content      string
	width        int
	height       int
	theme        *ui.Theme
	scrollOffset int
}

// NewFullScreen creates a new full-screen component
func NewFullScreen(viewType types.FullScreenViewType, resourceName string, content string, theme *ui.Theme) *FullScreen {
	return &FullScreen{
		viewType:     viewType,
		resourceName: resourceName,
		content:      content,
		width:        80,
		height:       24,
		theme:        theme,
	}
}

// SetSize updates the size of the full-screen view
func (fs *FullScreen) SetSize(width, height int) {
	fs.width = width
	fs.height = height
}

// visibleHeight is the number of content lines that fit the viewport.
func (fs *FullScreen) visibleHeight() int {
	return max(fs.height-FullScreenReservedLines, 1)
}

// maxScrollOffset is the largest offset that still shows a full viewport.
func (fs *FullScreen) maxScrollOffset() int {
	lines := strings.Count(fs.content, "\n") + 1
	return max(lines-fs.visibleHeight(), 0)
}

// Update handles scrolling input for the full-screen view
func (fs *FullScreen) Update(msg tea.Msg) (*FullScreen, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fs, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		fs.scrollOffset = max(fs.scrollOffset-1, 0)
	case "down", "j":
		fs.scrollOffset = min(fs.scrollOffset+1, fs.maxScrollOffset())
	case "pgup":
		fs.scrollOffset = max(fs.scrollOffset-fs.visibleHeight(), 0)
	case "pgdown":
		fs.scrollOffset = min(fs.scrollOffset+fs.visibleHeight(), fs.maxScrollOffset())
	case "home", "g":
		fs.scrollOffset = 0
	case "end", "G":
		fs.scrollOffset = fs.maxScrollOffset()
	}

	return fs, nil
}

// View renders the full-screen view
func (fs *FullScreen) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(fs.theme.Primary).
		Bold(true)

	hintStyle := lipgloss.NewStyle().
		Foreground(fs.theme.Muted)

	var viewTypeStr string
	switch fs.viewType {
	case types.FullScreenYAML:
		viewTypeStr = "YAML"
	case types.FullScreenDescribe:
		viewTypeStr = "Describe"
	case types.FullScreenLogs:
		viewTypeStr = "Logs"
	}

	title := titleStyle.Render(viewTypeStr + ": " + fs.resourceName)
	hint := hintStyle.Render("[ESC] Back  [↑↓/jk] Scroll  [PgUp/PgDn] Page  [g/G] Top/Bottom")

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", max(0, fs.width-lipgloss.Width(title)-lipgloss.Width(hint))),
		hint,
	)

	separator := lipgloss.NewStyle().
		Foreground(fs.theme.Border).
		Render(strings.Repeat("─", fs.width))

	displayContent := fs.content
	if fs.viewType == types.FullScreenYAML {
		displayContent = fs.highlightYAML(fs.content)
	}

	lines := strings.Split(displayContent, "\n")
	visibleHeight := fs.visibleHeight()

	var visibleLines []string
	for i := fs.scrollOffset; i < len(lines) && i < fs.scrollOffset+visibleHeight; i++ {
		visibleLines = append(visibleLines, lines[i])
	}

	// Pad so the frame stays stable when content is shorter than the viewport
	for len(visibleLines) < visibleHeight {
		visibleLines = append(visibleLines, "")
	}

	content := strings.Join(visibleLines, "\n")

	scrollInfo := ""
	if len(lines) > visibleHeight {
		scrollInfo = hintStyle.Render(fmt.Sprintf("  %d-%d of %d",
			fs.scrollOffset+1,
			min(fs.scrollOffset+visibleHeight, len(lines)),
			len(lines)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		separator,
		content,
		scrollInfo,
	)
}

// highlightYAML applies line-based highlighting: keys in the primary
// color, values in the success color, comments muted.
func (fs *FullScreen) highlightYAML(yaml string) string {
	lines := strings.Split(yaml, "\n")

	keyStyle := lipgloss.NewStyle().Foreground(fs.theme.Primary)
	valueStyle := lipgloss.NewStyle().Foreground(fs.theme.Success)
	commentStyle := lipgloss.NewStyle().Foreground(fs.theme.Muted)

	var highlighted []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			highlighted = append(highlighted, commentStyle.Render(line))
			continue
		}

		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			key := keyStyle.Render(parts[0] + ":")
			value := ""
			if len(parts) > 1 {
				value = valueStyle.Render(parts[1])
			}
			highlighted = append(highlighted, key+value)
			continue
		}

		highlighted = append(highlighted, line)
	}

	return strings.Join(highlighted, "\n")
}
