// Package styles provides the colour palette and lipgloss styles for the recipe browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colours the browser is drawn with.
type Palette struct {
	Accent    lipgloss.Color // header, selection, titles
	Highlight lipgloss.Color // labels, spinner
	Text      lipgloss.Color
	Subdued   lipgloss.Color
	Bar       lipgloss.Color // status bar background
	Frame     lipgloss.Color // help box border

	// Outcome colours, also used for difficulty levels.
	Good    lipgloss.Color
	Caution lipgloss.Color
	Bad     lipgloss.Color
}

// Kitchen is the default palette: amber on charcoal.
func Kitchen() Palette {
	return Palette{
		Accent:    lipgloss.Color("#D97706"),
		Highlight: lipgloss.Color("#0EA5E9"),
		Text:      lipgloss.Color("#E7E5E4"),
		Subdued:   lipgloss.Color("#78716C"),
		Bar:       lipgloss.Color("#1C1917"),
		Frame:     lipgloss.Color("#44403C"),
		Good:      lipgloss.Color("#84CC16"),
		Caution:   lipgloss.Color("#FACC15"),
		Bad:       lipgloss.Color("#EF4444"),
	}
}

// Styles contains the pre-built styles shared by the browser's components.
type Styles struct {
	palette Palette

	Header    lipgloss.Style
	Title     lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Label     lipgloss.Style
	Spinner   lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// New builds styles from a palette.
func New(p Palette) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		palette: p,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Accent).
			Padding(0, 1),
		Title:    fg(p.Accent).Bold(true),
		Normal:   fg(p.Text),
		Muted:    fg(p.Subdued),
		Selected: fg(p.Text).Background(p.Accent).Bold(true),
		Label:    fg(p.Highlight).Width(14),
		Spinner:  fg(p.Highlight),
		StatusBar: fg(p.Subdued).
			Background(p.Bar).
			Padding(0, 1),
		Help: fg(p.Subdued),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),

		Success: fg(p.Good),
		Warning: fg(p.Caution),
		Error:   fg(p.Bad),
	}
}

// DefaultStyles returns styles built from the Kitchen palette.
func DefaultStyles() *Styles {
	return New(Kitchen())
}

// Palette returns the colours these styles were built from.
func (s *Styles) Palette() Palette {
	return s.palette
}

// Difficulty returns the style for a recipe difficulty label.
// Unknown levels render muted.
func (s *Styles) Difficulty(level string) lipgloss.Style {
	switch level {
	case "Easy":
		return s.Success
	case "Medium":
		return s.Warning
	case "Hard":
		return s.Error
	default:
		return s.Muted
	}
}
