package ui

// screen is the page the TUI is showing.
type screen int

const (
	screenTimer screen = iota
	screenModeSelect
	screenAbout
)

func (s screen) String() string {
	switch s {
	case screenTimer:
		return "Timer"
	case screenModeSelect:
		return "ModeSelect"
	case screenAbout:
		return "About"
	default:
		return "Unknown"
	}
}
