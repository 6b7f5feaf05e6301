// Package ui provides the terminal user interface for the timer.
package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#8E8E93", Dark: "#999999"},
	Text:      lipgloss.AdaptiveColor{Light: "#1D1D1F", Dark: "#EEEEEE"},
	Highlight: lipgloss.AdaptiveColor{Light: "#007AFF", Dark: "#4DA3FF"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF3B30", Dark: "#FF4040"},
}

// Gradient endpoints of the countdown progress bar.
const (
	progressStart = "#7D56F4"
	progressEnd   = "#43BF6D"
)

// Style represents a collection of styles used in the application
type Style struct {
	Title         lipgloss.Style
	Label         lipgloss.Style
	Value         lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	InputBox      lipgloss.Style
	InputDisabled lipgloss.Style
	Display       lipgloss.Style
	BigDisplay    lipgloss.Style
	Button        lipgloss.Style
	Hint          lipgloss.Style
	Help          lipgloss.Style
	Error         lipgloss.Style
	Notice        lipgloss.Style
	Card          lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Label: base.
			Bold(true).
			Foreground(defaultColors.Text),

		Value: base.
			Foreground(defaultColors.Text),

		Tab: base.
			Foreground(defaultColors.Subtle),

		ActiveTab: base.
			Bold(true).
			Underline(true).
			Foreground(defaultColors.Highlight),

		InputBox: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Highlight).
			Padding(0, 1),

		InputDisabled: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Subtle).
			Foreground(defaultColors.Subtle).
			Padding(0, 1),

		Display: base.
			Bold(true).
			Foreground(defaultColors.Highlight).
			Padding(1, 2),

		BigDisplay: lipgloss.NewStyle().
			Foreground(defaultColors.Highlight),

		Button: base.
			Bold(true).
			Foreground(defaultColors.Text),

		Hint: base.
			Italic(true).
			Foreground(defaultColors.Subtle),

		Help: base.
			Foreground(defaultColors.Subtle),

		Error: base.
			Foreground(defaultColors.Error),

		Notice: base.
			Bold(true).
			Foreground(defaultColors.Special),

		Card: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Subtle).
			Padding(1, 2),
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()

// formTheme styles the mode selector to match the rest of the UI.
func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(defaultColors.Highlight).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(defaultColors.Highlight)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(defaultColors.Highlight).Bold(true)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(defaultColors.Text)
	t.Focused.Description = lipgloss.NewStyle().Foreground(defaultColors.Subtle)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(defaultColors.Subtle)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(defaultColors.Subtle)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(defaultColors.Subtle)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(defaultColors.Subtle)

	return t
}
