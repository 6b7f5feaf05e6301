// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly and runs every returned Cmd in turn,
// feeding the resulting messages back into the model. Cmds that do not
// return within a short deadline (tea.Tick, cursor blinks) are dropped, so
// periodic callbacks never fire on their own and tests deliver them by hand.
package teatest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDepth bounds how many chained Cmds a single Send may run.
const MaxDepth = 100

// cmdDeadline separates immediate Cmds from timers.
const cmdDeadline = 10 * time.Millisecond

// Driver wraps a tea.Model for deterministic tests.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced.
	Quitting bool

	// Dropped counts Cmds skipped because they did not return in time.
	Dropped int
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New returns a Driver for model. Call Init to run the model's Init Cmd.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init runs the model's Init Cmd.
func (d *Driver) Init() {
	d.T.Helper()
	d.run(d.Model.Init(), 0)
}

// Send delivers msg and runs whatever it returns.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd, 0)
}

// Press sends a named key such as "enter", "esc", "tab", "ctrl+c" or a
// single character.
func (d *Driver) Press(name string) {
	d.T.Helper()
	d.Send(Key(name))
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Resize sends a WindowSizeMsg.
func (d *Driver) Resize(w, h int) {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

var named = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"space":     tea.KeySpace,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"ctrl+c":    tea.KeyCtrlC,
}

// Key builds the KeyMsg for a key name.
func Key(name string) tea.KeyMsg {
	if name == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if t, ok := named[name]; ok {
		if t == tea.KeySpace {
			return tea.KeyMsg{Type: t, Runes: []rune{' '}}
		}
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDepth {
		d.T.Logf("teatest: stopped after %d chained commands", MaxDepth)
		return
	}

	msg, ok := call(cmd)
	if !ok {
		d.Dropped++
		return
	}
	if msg == nil || isBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			d.run(c, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
		return
	}

	// tea.Sequence produces an unexported slice of Cmds.
	if cmds, ok := sequence(msg); ok {
		for _, c := range cmds {
			d.run(c, depth+1)
		}
		return
	}

	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	d.run(next, depth+1)
}

// call runs cmd and reports whether it returned before the deadline.
func call(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdDeadline):
		return nil, false
	}
}

// isBlink matches the unexported blink messages of bubbles/cursor.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}

func sequence(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeOf(tea.Cmd(nil)) {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}
