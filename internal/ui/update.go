package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/stigoleg/timer/internal/layout"
	"github.com/stigoleg/timer/internal/timer"
)

// tickPeriod is the interval between timer ticks.
const tickPeriod = time.Second

const (
	invalidInputMessage = "Invalid Time: Please enter a valid time for countdown."
	finishedTitle       = "Timer Finished"
	finishedBody        = "Countdown has reached zero!"
)

// tickMsg is sent when the periodic callback fires. It carries the handle
// it was scheduled for so stale callbacks can be dropped.
type tickMsg struct {
	handle timer.Handle
	at     time.Time
}

// notifiedMsg reports the outcome of a finish notification.
type notifiedMsg struct {
	err error
}

func tick(h timer.Handle) tea.Cmd {
	return tea.Tick(tickPeriod, func(t time.Time) tea.Msg {
		return tickMsg{handle: h, at: t}
	})
}

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bus.Publish(layout.Size{Width: msg.Width, Height: msg.Height})
		m.help.Width = msg.Width
		m.progress.Width = clamp(msg.Width-8, 10, 40)
		if m.screen == screenModeSelect {
			return m.updateModeForm(msg)
		}
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case notifiedMsg:
		if msg.err != nil {
			log.Printf("ui: notification failed: %v", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
	}

	switch m.screen {
	case screenModeSelect:
		return m.updateModeForm(msg)
	case screenAbout:
		return m.updateAbout(msg)
	default:
		return m.updateTimer(msg)
	}
}

func (m Model) handleTick(msg tickMsg) (Model, tea.Cmd) {
	switch m.session.Tick(msg.handle) {
	case timer.EventTicked:
		return m, tick(msg.handle)
	case timer.EventFinished:
		m.Notice = finishedTitle + ": " + finishedBody
		m.syncInput()
		return m, notifyCmd(m)
	}
	// Stale handle: the callback was cancelled, let it die.
	return m, nil
}

func notifyCmd(m Model) tea.Cmd {
	n := m.notifier
	return func() tea.Msg {
		return notifiedMsg{err: n.Notify(context.Background(), finishedTitle, finishedBody)}
	}
}

func (m Model) updateTimer(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		// Tap anywhere toggles pause in the full-screen layout.
		if m.landscape() && msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			return m.run(m.session.Pause)
		}
		return m, nil

	case tea.KeyMsg:
		if m.ShowHelp {
			switch {
			case key.Matches(msg, m.keys.ToggleHelp), key.Matches(msg, m.keys.Back):
				m.ShowHelp = false
			case key.Matches(msg, m.keys.Quit):
				return m.quit()
			}
			return m, nil
		}

		if m.landscape() {
			return m.updateLandscape(msg)
		}

		if m.editable() && key.Matches(msg, m.keys.Edit) {
			return m.edit(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.ToggleHelp):
			m.ShowHelp = true
		case key.Matches(msg, m.keys.NextScreen):
			m.screen = screenAbout
		case key.Matches(msg, m.keys.Primary):
			if m.session.State() == timer.Stopped {
				return m.start()
			}
			return m.run(m.session.Pause)
		case key.Matches(msg, m.keys.Pause):
			return m.run(m.session.Pause)
		case key.Matches(msg, m.keys.Stop):
			return m.run(m.session.Stop)
		case key.Matches(msg, m.keys.Reset):
			return m.run(m.session.Reset)
		case key.Matches(msg, m.keys.Mode):
			return m.openModeForm()
		case key.Matches(msg, m.keys.Layout):
			m.tracker.Toggle()
		}
	}
	return m, nil
}

// updateLandscape handles keys in the full-screen layout, where only the
// pause toggle and leaving the layout are available.
func (m Model) updateLandscape(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Primary), key.Matches(msg, m.keys.Pause):
		return m.run(m.session.Pause)
	case key.Matches(msg, m.keys.Layout), key.Matches(msg, m.keys.Back):
		m.tracker.Toggle()
	}
	return m, nil
}

func (m Model) updateAbout(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m.quit()
	case key.Matches(keyMsg, m.keys.NextScreen), key.Matches(keyMsg, m.keys.Back):
		m.screen = screenTimer
	}
	return m, nil
}

// edit forwards a key to the duration field and copies the text into the
// session.
func (m Model) edit(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.session.SetInput(m.input.Value()) {
		m.ErrorMessage = ""
	}
	return m, cmd
}

func (m Model) start() (Model, tea.Cmd) {
	before := m.session.Handle()
	if err := m.session.Start(); err != nil {
		if errors.Is(err, timer.ErrInvalidInput) {
			m.ErrorMessage = invalidInputMessage
		} else {
			m.ErrorMessage = err.Error()
		}
		return m, nil
	}
	m.ErrorMessage = ""
	m.Notice = ""
	m.syncInput()
	return m, m.armed(before)
}

// run applies a session operation and schedules a tick when it armed a new
// handle.
func (m Model) run(op func()) (Model, tea.Cmd) {
	before := m.session.Handle()
	op()
	m.ErrorMessage = ""
	m.Notice = ""
	m.syncInput()
	return m, m.armed(before)
}

func (m Model) armed(before timer.Handle) tea.Cmd {
	if h := m.session.Handle(); h != 0 && h != before {
		return tick(h)
	}
	return nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) openModeForm() (Model, tea.Cmd) {
	m.modeForm, m.modeChoice = newModeForm(m.session.Mode())
	m.screen = screenModeSelect
	return m, m.modeForm.Init()
}

func (m Model) updateModeForm(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		return m.closeModeForm(), nil
	}

	form, cmd := m.modeForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.modeForm = f
	}

	switch m.modeForm.State {
	case huh.StateCompleted:
		mode := *m.modeChoice
		m = m.closeModeForm()
		return m.run(func() { m.session.ChangeMode(mode) })
	case huh.StateAborted:
		return m.closeModeForm(), nil
	}
	return m, cmd
}

func (m Model) closeModeForm() Model {
	m.modeForm = nil
	m.modeChoice = nil
	m.screen = screenTimer
	return m
}

// ChangeMode switches the timer direction directly, as choosing an option
// in the mode selector does.
func (m Model) ChangeMode(mode timer.Mode) (Model, tea.Cmd) {
	return m.run(func() { m.session.ChangeMode(mode) })
}

func newModeForm(current timer.Mode) (*huh.Form, *timer.Mode) {
	choice := new(timer.Mode)
	*choice = current

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[timer.Mode]().
				Title("Mode").
				Options(
					huh.NewOption(timer.CountUp.String(), timer.CountUp),
					huh.NewOption(timer.CountDown.String(), timer.CountDown),
				).
				Value(choice),
		),
	).WithTheme(formTheme()).WithShowHelp(false)

	return form, choice
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
