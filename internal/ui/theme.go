package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme and styles for the TUI
type Theme struct {
	Name string

	// Core colors
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Accent     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor

	// UI element colors
	Border     lipgloss.AdaptiveColor // Separator lines, borders
	Dimmed     lipgloss.AdaptiveColor // Very subtle text (shortcuts)
	Subtle     lipgloss.AdaptiveColor // Subtle UI elements
	Background lipgloss.AdaptiveColor // Background for overlays

	// Component styles
	Table     TableStyles
	AppTitle  lipgloss.Style // App title with background
	Header    lipgloss.Style
	StatusBar lipgloss.Style
}

// TableStyles defines styles for table components
type TableStyles struct {
	Header        lipgloss.Style
	Cell          lipgloss.Style
	SelectedRow   lipgloss.Style
	StatusRunning lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
}

// ToTableStyles converts Theme.Table to bubbles table.Styles
func (t *Theme) ToTableStyles() table.Styles {
	return table.Styles{
		Header:   t.Table.Header,
		Cell:     t.Table.Cell,
		Selected: t.Table.SelectedRow,
	}
}

// palette holds the raw colors a theme is built from. Component styles are
// derived uniformly in build().
type palette struct {
	primary    lipgloss.AdaptiveColor
	secondary  lipgloss.AdaptiveColor
	accent     lipgloss.AdaptiveColor
	foreground lipgloss.AdaptiveColor
	muted      lipgloss.AdaptiveColor
	error      lipgloss.AdaptiveColor
	success    lipgloss.AdaptiveColor
	warning    lipgloss.AdaptiveColor

	border     lipgloss.AdaptiveColor
	dimmed     lipgloss.AdaptiveColor
	subtle     lipgloss.AdaptiveColor
	background lipgloss.AdaptiveColor

	selectedFg lipgloss.Color // selected table row
	selectedBg lipgloss.Color
	titleBg    lipgloss.Color // app title background
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func mono(color string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: color, Dark: color}
}

// build derives the full Theme from a palette
func (p palette) build(name string) *Theme {
	t := &Theme{
		Name:       name,
		Primary:    p.primary,
		Secondary:  p.secondary,
		Accent:     p.accent,
		Foreground: p.foreground,
		Muted:      p.muted,
		Error:      p.error,
		Success:    p.success,
		Warning:    p.warning,
		Border:     p.border,
		Dimmed:     p.dimmed,
		Subtle:     p.subtle,
		Background: p.background,
	}

	t.Table.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Primary).
		Bold(true).
		PaddingLeft(1).
		PaddingRight(1)

	t.Table.Cell = lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	t.Table.SelectedRow = lipgloss.NewStyle().
		Foreground(p.selectedFg).
		Background(p.selectedBg).
		Bold(false)

	t.Table.StatusRunning = lipgloss.NewStyle().Foreground(t.Success)
	t.Table.StatusError = lipgloss.NewStyle().Foreground(t.Error)
	t.Table.StatusWarning = lipgloss.NewStyle().Foreground(t.Warning)

	t.AppTitle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Background(p.titleBg).
		Bold(true)

	t.Header = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(t.Muted)

	return t
}

// palettes defines every built-in theme
var palettes = map[string]palette{
	"charm": {
		primary:    adaptive("#5A56E0", "#7571F9"),
		secondary:  adaptive("#02BA84", "#02BF87"),
		accent:     mono("#F780E2"),
		foreground: adaptive("235", "252"),
		muted:      mono("243"),
		error:      adaptive("#FF4672", "#ED567A"),
		success:    adaptive("#02BA84", "#02BF87"),
		warning:    mono("#FFAA00"),
		border:     mono("240"),
		dimmed:     mono("243"),
		subtle:     mono("241"),
		background: adaptive("254", "235"),
		selectedFg: "229",
		selectedBg: "57",
		titleBg:    "235",
	},
	"dracula": {
		primary:    mono("#bd93f9"),
		secondary:  mono("#8be9fd"),
		accent:     mono("#ff79c6"),
		foreground: adaptive("#282a36", "#f8f8f2"),
		muted:      mono("#6272a4"),
		error:      mono("#ff5555"),
		success:    mono("#50fa7b"),
		warning:    mono("#f1fa8c"),
		border:     mono("61"),
		dimmed:     mono("#6272a4"),
		subtle:     mono("#44475a"),
		background: adaptive("#f8f8f2", "#282a36"),
		selectedFg: "#282a36",
		selectedBg: "#bd93f9",
		titleBg:    "#44475a",
	},
	"catppuccin": {
		primary:    adaptive("#8839ef", "#cba6f7"),
		secondary:  adaptive("#179299", "#89dceb"),
		accent:     adaptive("#ea76cb", "#f5c2e7"),
		foreground: adaptive("#4c4f69", "#cdd6f4"),
		muted:      adaptive("#9ca0b0", "#7f849c"),
		error:      adaptive("#d20f39", "#f38ba8"),
		success:    adaptive("#40a02b", "#a6e3a1"),
		warning:    adaptive("#df8e1d", "#f9e2af"),
		border:     adaptive("#9ca0b0", "#45475a"),
		dimmed:     adaptive("#9ca0b0", "#7f849c"),
		subtle:     adaptive("#7c7f93", "#585b70"),
		background: adaptive("#eff1f5", "#1e1e2e"),
		selectedFg: "#1e1e2e",
		selectedBg: "#cba6f7",
		titleBg:    "#313244",
	},
	"nord": {
		primary:    adaptive("#5e81ac", "#88c0d0"),
		secondary:  mono("#81a1c1"),
		accent:     mono("#b48ead"),
		foreground: adaptive("#2e3440", "#eceff4"),
		muted:      mono("#4c566a"),
		error:      mono("#bf616a"),
		success:    mono("#a3be8c"),
		warning:    mono("#ebcb8b"),
		border:     adaptive("#d8dee9", "#3b4252"),
		dimmed:     mono("#4c566a"),
		subtle:     mono("#434c5e"),
		background: adaptive("#eceff4", "#2e3440"),
		selectedFg: "#2e3440",
		selectedBg: "#88c0d0",
		titleBg:    "#3b4252",
	},
	"gruvbox": {
		primary:    adaptive("#af3a03", "#fe8019"),
		secondary:  adaptive("#79740e", "#b8bb26"),
		accent:     adaptive("#b16286", "#d3869b"),
		foreground: adaptive("#3c3836", "#ebdbb2"),
		muted:      adaptive("#7c6f64", "#928374"),
		error:      adaptive("#9d0006", "#fb4934"),
		success:    adaptive("#79740e", "#b8bb26"),
		warning:    adaptive("#b57614", "#fabd2f"),
		border:     adaptive("#d5c4a1", "#504945"),
		dimmed:     adaptive("#7c6f64", "#928374"),
		subtle:     mono("#665c54"),
		background: adaptive("#fbf1c7", "#282828"),
		selectedFg: "#282828",
		selectedBg: "#fe8019",
		titleBg:    "#3c3836",
	},
	"tokyo-night": {
		primary:    mono("#7aa2f7"),
		secondary:  mono("#2ac3de"),
		accent:     mono("#bb9af7"),
		foreground: adaptive("#1a1b26", "#c0caf5"),
		muted:      mono("#565f89"),
		error:      mono("#f7768e"),
		success:    mono("#9ece6a"),
		warning:    mono("#e0af68"),
		border:     adaptive("#a9b1d6", "#292e42"),
		dimmed:     mono("#565f89"),
		subtle:     mono("#414868"),
		background: adaptive("#d5d6db", "#1a1b26"),
		selectedFg: "#1a1b26",
		selectedBg: "#7aa2f7",
		titleBg:    "#24283b",
	},
	"solarized": {
		primary:    mono("#268bd2"),
		secondary:  mono("#2aa198"),
		accent:     mono("#6c71c4"),
		foreground: adaptive("#002b36", "#839496"),
		muted:      mono("#586e75"),
		error:      mono("#dc322f"),
		success:    mono("#859900"),
		warning:    mono("#cb4b16"),
		border:     adaptive("#93a1a1", "#073642"),
		dimmed:     mono("#586e75"),
		subtle:     mono("#657b83"),
		background: adaptive("#fdf6e3", "#002b36"),
		selectedFg: "#002b36",
		selectedBg: "#268bd2",
		titleBg:    "#073642",
	},
	"monokai": {
		primary:    mono("#66d9ef"),
		secondary:  mono("#a6e22e"),
		accent:     mono("#ae81ff"),
		foreground: adaptive("#272822", "#f8f8f2"),
		muted:      mono("#75715e"),
		error:      mono("#f92672"),
		success:    mono("#a6e22e"),
		warning:    mono("#e6db74"),
		border:     mono("#464741"),
		dimmed:     mono("#75715e"),
		subtle:     mono("#49483e"),
		background: adaptive("#f8f8f2", "#272822"),
		selectedFg: "#272822",
		selectedBg: "#66d9ef",
		titleBg:    "#3e3d32",
	},
}

// ThemeCharm returns the default Charm theme
func ThemeCharm() *Theme {
	return palettes["charm"].build("charm")
}

// GetTheme returns a theme by name, defaulting to Charm
func GetTheme(name string) *Theme {
	if p, ok := palettes[name]; ok {
		return p.build(name)
	}
	return ThemeCharm()
}

// AvailableThemes returns a list of available theme names
func AvailableThemes() []string {
	return []string{"charm", "dracula", "catppuccin", "nord", "gruvbox", "tokyo-night", "solarized", "monokai"}
}
