package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin palettes, https://catppuccin.com/palette
type palette struct {
	Text, Subtext, Overlay, Surface lipgloss.Color
	Accent, Focus, Success, Error   lipgloss.Color
	Warning                         lipgloss.Color
}

var mocha = palette{
	Text:    "#cdd6f4",
	Subtext: "#a6adc8",
	Overlay: "#7f849c",
	Surface: "#45475a",
	Accent:  "#f5c2e7",
	Focus:   "#b4befe",
	Success: "#a6e3a1",
	Error:   "#f38ba8",
	Warning: "#f9e2af",
}

var latte = palette{
	Text:    "#4c4f69",
	Subtext: "#6c6f85",
	Overlay: "#8c8fa1",
	Surface: "#bcc0cc",
	Accent:  "#ea76cb",
	Focus:   "#7287fd",
	Success: "#40a02b",
	Error:   "#d20f39",
	Warning: "#df8e1d",
}

// Theme is the resolved set of styles. It is fixed for the life of the program.
type Theme struct {
	Dark bool

	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Muted   lipgloss.Style
	On      lipgloss.Style
	Off     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Output  lipgloss.Style
}

// ResolveTheme maps the ui.theme setting to a Theme. "auto" queries the
// terminal background once.
func ResolveTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return NewTheme(true)
	case "light":
		return NewTheme(false)
	}
	return NewTheme(lipgloss.HasDarkBackground())
}

func NewTheme(dark bool) Theme {
	p := latte
	if dark {
		p = mocha
	}
	return Theme{
		Dark:    dark,
		Title:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.Accent),
		Label:   lipgloss.NewStyle().Foreground(p.Subtext).Width(13),
		Focused: lipgloss.NewStyle().Bold(true).Foreground(p.Focus),
		Muted:   lipgloss.NewStyle().Foreground(p.Overlay),
		On:      lipgloss.NewStyle().Bold(true).Foreground(p.Success),
		Off:     lipgloss.NewStyle().Foreground(p.Overlay),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
		Output: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Surface).
			Foreground(p.Text).
			Padding(0, 1),
	}
}
