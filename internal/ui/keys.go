package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines key bindings for the timer screens.
type KeyMap struct {
	// Common
	Quit       key.Binding
	ToggleHelp key.Binding
	NextScreen key.Binding
	Back       key.Binding

	// Timer controls
	Primary key.Binding
	Pause   key.Binding
	Stop    key.Binding
	Reset   key.Binding
	Mode    key.Binding
	Layout  key.Binding

	// Duration field
	Edit key.Binding

	// Mode selector
	Choose key.Binding
}

// DefaultKeys returns the default key bindings for the application.
func DefaultKeys() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "toggle help"),
		),
		NextScreen: key.NewBinding(
			key.WithKeys("tab", "a"),
			key.WithHelp("tab", "timer/about"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Primary: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "start/pause/resume"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s", "x"),
			key.WithHelp("s", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mode"),
		),
		Layout: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "full screen"),
		),
		Edit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ":", "backspace", "delete", "left", "right", "home", "end"),
			key.WithHelp("0-9 :", "edit duration"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
	}
}

// NewHelpModel returns a configured help model.
func NewHelpModel() help.Model {
	h := help.New()
	h.ShortSeparator = " • "
	return h
}

// screenKeyMap adapts bindings to the current screen for contextual help.
type screenKeyMap struct {
	keys      KeyMap
	screen    screen
	editable  bool
	landscape bool
}

// ForScreen returns a contextual key map implementing help.KeyMap.
func (k KeyMap) ForScreen(s screen, editable, landscape bool) help.KeyMap {
	return screenKeyMap{keys: k, screen: s, editable: editable, landscape: landscape}
}

// ShortHelp implements help.KeyMap for contextual help (compact).
func (s screenKeyMap) ShortHelp() []key.Binding {
	switch s.screen {
	case screenTimer:
		if s.landscape {
			return []key.Binding{s.keys.Primary, s.keys.Layout, s.keys.Quit}
		}
		bindings := []key.Binding{s.keys.Primary, s.keys.Stop, s.keys.Reset, s.keys.Mode}
		if s.editable {
			bindings = append(bindings, s.keys.Edit)
		}
		return append(bindings, s.keys.ToggleHelp, s.keys.Quit)
	case screenModeSelect:
		return []key.Binding{s.keys.Choose, s.keys.Back}
	case screenAbout:
		return []key.Binding{s.keys.NextScreen, s.keys.Quit}
	default:
		return []key.Binding{s.keys.ToggleHelp, s.keys.Quit}
	}
}

// FullHelp implements help.KeyMap for contextual help (expanded).
func (s screenKeyMap) FullHelp() [][]key.Binding {
	switch s.screen {
	case screenTimer:
		return [][]key.Binding{
			{s.keys.Primary, s.keys.Pause, s.keys.Stop, s.keys.Reset},
			{s.keys.Mode, s.keys.Edit, s.keys.Layout},
			{s.keys.NextScreen, s.keys.ToggleHelp, s.keys.Quit},
		}
	case screenModeSelect:
		return [][]key.Binding{{s.keys.Choose, s.keys.Back}}
	default:
		return [][]key.Binding{{s.keys.NextScreen, s.keys.ToggleHelp, s.keys.Quit}}
	}
}
