package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/timer/internal/timer"
)

const (
	appName        = "Timer App"
	appDescription = "A simple, cross-platform timer for the terminal."
)

var features = []string{
	"Count up and count down modes",
	"Start, pause, stop, and reset controls",
	"Custom time input for countdown",
	"Full-screen display for wide terminals",
	"Desktop notification when a countdown finishes",
}

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenAbout:
		return aboutView(m)
	case screenModeSelect:
		return modeSelectView(m)
	}

	if m.ShowHelp {
		return helpView(m)
	}
	if m.landscape() {
		return landscapeView(m)
	}
	return timerView(m)
}

func tabs(active screen) string {
	timerTab, aboutTab := Current.Tab, Current.Tab
	if active == screenAbout {
		aboutTab = Current.ActiveTab
	} else {
		timerTab = Current.ActiveTab
	}
	return timerTab.Render("Timer") + aboutTab.Render("About")
}

func timerView(m Model) string {
	var b strings.Builder
	snap := m.session.Snapshot()

	b.WriteString(tabs(screenTimer))
	b.WriteString("\n\n")

	b.WriteString(Current.Label.Render("Mode:"))
	b.WriteString(Current.Value.Render(snap.Mode.String()))
	b.WriteString("\n")

	if snap.Mode == timer.CountDown {
		b.WriteString("\n")
		b.WriteString(Current.Label.Render("Set Time (MM:SS):"))
		b.WriteString("\n")
		if m.editable() {
			b.WriteString(Current.InputBox.Render(m.input.View()))
		} else {
			b.WriteString(Current.InputDisabled.Render(snap.Input))
		}
		b.WriteString("\n")
	}

	b.WriteString(Current.Display.Render(snap.Display()))
	b.WriteString("\n")

	if snap.Mode == timer.CountDown && snap.State != timer.Stopped {
		b.WriteString(" " + m.progress.ViewAs(snap.Progress()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(controls(snap.State))
	b.WriteString("\n")

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}
	if m.Notice != "" {
		b.WriteString("\n" + Current.Notice.Render(m.Notice))
	}

	b.WriteString("\n\n" + m.help.View(m.keys.ForScreen(screenTimer, m.editable(), false)))
	return b.String()
}

// controls renders the action row; the primary action depends on state.
func controls(state timer.RunState) string {
	primary := "Start"
	switch state {
	case timer.Running:
		primary = "Pause"
	case timer.Paused:
		primary = "Resume"
	}
	buttons := []string{
		Current.Button.Render("[" + primary + "]"),
		Current.Button.Render("[Stop]"),
		Current.Button.Render("[Reset]"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func landscapeView(m Model) string {
	snap := m.session.Snapshot()

	parts := []string{Current.BigDisplay.Render(bigText(snap.Display()))}
	switch snap.State {
	case timer.Running:
		parts = append(parts, "", Current.Hint.Render("Press space or click anywhere to pause"))
	case timer.Paused:
		parts = append(parts, "", Current.Hint.Render("Press space or click anywhere to resume"))
	default:
		parts = append(parts, "", Current.Hint.Render("Press f for controls"))
	}
	if m.Notice != "" {
		parts = append(parts, "", Current.Notice.Render(m.Notice))
	}
	body := lipgloss.JoinVertical(lipgloss.Center, parts...)

	size := m.tracker.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return body
	}
	return lipgloss.Place(size.Width, size.Height, lipgloss.Center, lipgloss.Center, body)
}

func modeSelectView(m Model) string {
	var b strings.Builder
	b.WriteString(Current.Title.Render("Select Mode"))
	b.WriteString("\n\n")
	if m.modeForm != nil {
		b.WriteString(m.modeForm.View())
	}
	b.WriteString("\n\n" + m.help.View(m.keys.ForScreen(screenModeSelect, false, false)))
	return b.String()
}

func aboutView(m Model) string {
	var b strings.Builder

	b.WriteString(tabs(screenAbout))
	b.WriteString("\n\n")

	var card strings.Builder
	card.WriteString(Current.Title.Render(appName))
	card.WriteString("\n")
	card.WriteString(Current.Help.Render("Version " + m.version))
	card.WriteString("\n\n")
	card.WriteString(Current.Value.Render(appDescription))
	card.WriteString("\n\n")
	card.WriteString(Current.Label.Render("Features:"))
	for _, f := range features {
		card.WriteString("\n")
		card.WriteString(Current.Help.Render("• " + f))
	}
	b.WriteString(Current.Card.Render(card.String()))

	b.WriteString("\n\n" + m.help.View(m.keys.ForScreen(screenAbout, false, false)))
	return b.String()
}

// AboutText returns the about screen without terminal chrome.
func AboutText(version string) string {
	var b strings.Builder
	b.WriteString(appName + "\n")
	b.WriteString("Version " + version + "\n\n")
	b.WriteString(appDescription + "\n\n")
	b.WriteString("Features:\n")
	for _, f := range features {
		b.WriteString("  • " + f + "\n")
	}
	return b.String()
}

func helpView(m Model) string {
	usage := `Timer Help

Usage:
  timer [flags]
  timer run [flags]     # headless, prints the time every second
  timer about

Flags:
  -m, --mode string       Start mode: up or down
  -d, --duration string   Countdown length (e.g., "5:00", "90" or "2h30m")
      --layout string     portrait, landscape or auto
  -v, --version           Show version information
  -h, --help              Show help message

Keys:`

	full := m.help
	full.ShowAll = true

	var b strings.Builder
	b.WriteString(Current.Help.Render(usage))
	b.WriteString("\n")
	b.WriteString(full.View(m.keys.ForScreen(screenTimer, true, false)))
	b.WriteString("\n\n" + Current.Help.Render("Press '?' or 'esc' to close help"))
	return b.String()
}
