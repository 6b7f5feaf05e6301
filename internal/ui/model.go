package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/huh"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/timer/internal/layout"
	"github.com/stigoleg/timer/internal/notify"
	"github.com/stigoleg/timer/internal/timer"
	"github.com/stigoleg/timer/internal/util"
)

// Options configures a new Model.
type Options struct {
	Mode       timer.Mode
	Input      string
	Policy     layout.Policy
	CellAspect float64
	Notifier   notify.Notifier
	Bus        *layout.Bus
	Version    string
}

// Model holds the state of the TUI. The session, bus and tracker are
// shared pointers so copies made by bubbletea see the same timer.
type Model struct {
	screen   screen
	session  *timer.Session
	bus      *layout.Bus
	tracker  *layout.Tracker
	notifier notify.Notifier

	input    textinput.Model
	progress progress.Model
	help     help.Model
	keys     KeyMap

	modeForm   *huh.Form
	modeChoice *timer.Mode

	ErrorMessage string
	Notice       string
	ShowHelp     bool
	version      string
	quitting     bool
}

// InitialModel returns a model with default options.
func InitialModel() Model {
	return New(Options{})
}

// New returns the initial model for the TUI.
func New(opts Options) Model {
	if opts.Input == "" {
		opts.Input = timer.DefaultInput
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Bus == nil {
		opts.Bus = layout.NewBus()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := timer.NewSession()
	s.SetInput(opts.Input)
	s.ChangeMode(opts.Mode)

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = timer.DefaultInput
	ti.CharLimit = max(len(util.InputText(util.MaxSeconds)), len(opts.Input))
	ti.Width = ti.CharLimit
	ti.SetValue(opts.Input)
	ti.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		screen:   screenTimer,
		session:  s,
		bus:      opts.Bus,
		tracker:  layout.NewTracker(opts.Policy, opts.CellAspect),
		notifier: opts.Notifier,
		input:    ti,
		progress: progress.New(
			progress.WithGradient(progressStart, progressEnd),
			progress.WithoutPercentage(),
			progress.WithWidth(30),
		),
		help:    NewHelpModel(),
		keys:    DefaultKeys(),
		version: opts.Version,
	}
	m.syncInput()
	return m
}

// SetVersion sets the version shown on the about screen.
func (m *Model) SetVersion(v string) {
	m.version = v
}

// Session exposes the timer session.
func (m Model) Session() *timer.Session {
	return m.session
}

// Tracker exposes the layout tracker.
func (m Model) Tracker() *layout.Tracker {
	return m.tracker
}

// Close tears the screen down: the geometry subscription is removed and any
// pending tick is invalidated.
func (m Model) Close() error {
	m.tracker.Unmount()
	m.session.Close()
	return nil
}

// Init implements tea.Model. Mounting subscribes the layout tracker.
func (m Model) Init() tea.Cmd {
	m.tracker.Mount(m.bus)
	if h := m.session.Handle(); h != 0 {
		return tick(h)
	}
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := Update(msg, m)
	return newModel, cmd
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// editable reports whether the duration field accepts input.
func (m Model) editable() bool {
	return m.session.Mode() == timer.CountDown && m.session.State() == timer.Stopped
}

func (m Model) landscape() bool {
	return m.tracker.Orientation() == layout.Landscape
}

// syncInput focuses the duration field only while it may be edited and
// shows the session's text whenever it is locked.
func (m *Model) syncInput() {
	if m.editable() {
		m.input.Focus()
		return
	}
	m.input.Blur()
	if m.input.Value() != m.session.Input() {
		m.input.SetValue(m.session.Input())
	}
}
