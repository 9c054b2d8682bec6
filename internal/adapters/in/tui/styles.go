// internal/adapters/in/tui/styles.go
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is one terminal colour scheme. The persisted darkMode flag picks it.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Selected   lipgloss.Color
	IsDark     bool
}

var (
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Info        = lipgloss.Color("#2196F3")
)

func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		Primary:    lipgloss.Color("#101F38"),
		Accent:     lipgloss.Color("#4f46e5"),
		Muted:      lipgloss.Color("#6b7280"),
		Border:     lipgloss.Color("#dce0e5"),
		Selected:   lipgloss.Color("#e1e4e8"),
		IsDark:     false,
	}
}

func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Primary:    lipgloss.Color("#8BC34A"),
		Accent:     lipgloss.Color("#818cf8"),
		Muted:      lipgloss.Color("#9ca3af"),
		Border:     lipgloss.Color("#2a3850"),
		Selected:   lipgloss.Color("#1e2a3d"),
		IsDark:     true,
	}
}

// ThemeFor maps the store's darkMode flag to a palette.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

// GlamourStyle is the glamour standard style matching the theme.
func (t Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// Styles holds the styled components shared by the CLI and browse.
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Price    lipgloss.Style
	Strike   lipgloss.Style
	Badge    lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	PageCur  lipgloss.Style
	Page     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Help    lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	base := lipgloss.NewStyle().Foreground(theme.Foreground)
	return Styles{
		Theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Body:     base,
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Bold:     base.Bold(true),

		Price:  lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Strike: lipgloss.NewStyle().Strikethrough(true).Foreground(theme.Muted),
		Badge:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(Destructive).Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Background(theme.Selected).
			Padding(0, 1),
		PageCur: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Underline(true),
		Page:    lipgloss.NewStyle().Foreground(theme.Muted),

		Success: lipgloss.NewStyle().Bold(true).Foreground(Success),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(Destructive),
		Info:    lipgloss.NewStyle().Foreground(Info),
		Help:    lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
	}
}

// StylesFor is NewStyles(ThemeFor(dark)).
func StylesFor(dark bool) Styles {
	return NewStyles(ThemeFor(dark))
}
