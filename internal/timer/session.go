// Package timer implements the stopwatch/countdown state machine and a
// ticker-driven runner for it.
package timer

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/stigoleg/timer/internal/util"
)

// DefaultInput is the countdown text a new session starts with.
const DefaultInput = "5:00"

// ErrInvalidInput is returned by Start when a countdown would begin at or
// below zero seconds.
var ErrInvalidInput = errors.New("invalid time: please enter a valid time for countdown")

// Mode selects the counting direction.
type Mode int

const (
	CountUp Mode = iota
	CountDown
)

func (m Mode) String() string {
	switch m {
	case CountUp:
		return "Count Up"
	case CountDown:
		return "Count Down"
	default:
		return "Unknown"
	}
}

// RunState is the lifecycle state of a session.
type RunState int

const (
	Stopped RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Handle identifies the periodic callback armed for a session. The zero
// Handle means no callback is live.
type Handle uint64

// Event reports what a tick did.
type Event int

const (
	// EventStale means the tick carried a handle that is no longer live.
	EventStale Event = iota
	EventTicked
	// EventFinished means a countdown reached zero and the session stopped.
	EventFinished
)

func (e Event) String() string {
	switch e {
	case EventStale:
		return "stale"
	case EventTicked:
		return "ticked"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID             string
	Mode           Mode
	State          RunState
	CurrentSeconds int
	StartSeconds   int
	Input          string
}

// Display returns the formatted current time.
func (s Snapshot) Display() string {
	return util.FormatTime(s.CurrentSeconds)
}

// Progress returns the elapsed fraction of a countdown in [0, 1]. Count-up
// sessions have no target and report 0.
func (s Snapshot) Progress() float64 {
	if s.Mode != CountDown || s.StartSeconds <= 0 {
		return 0
	}
	p := 1 - float64(s.CurrentSeconds)/float64(s.StartSeconds)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Session is a single timer. It is not safe for concurrent use; Runner adds
// locking for callers that tick from another goroutine.
type Session struct {
	id      string
	mode    Mode
	state   RunState
	current int
	start   int
	input   string

	handle Handle
	seq    Handle
}

// NewSession returns a stopped count-up session with the default input.
func NewSession() *Session {
	return &Session{
		id:    uuid.New().String(),
		mode:  CountUp,
		state: Stopped,
		input: DefaultInput,
	}
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Mode() Mode          { return s.mode }
func (s *Session) State() RunState     { return s.state }
func (s *Session) CurrentSeconds() int { return s.current }
func (s *Session) StartSeconds() int   { return s.start }
func (s *Session) Input() string       { return s.input }

// Handle returns the live callback handle, or zero when none is armed.
func (s *Session) Handle() Handle { return s.handle }

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:             s.id,
		Mode:           s.mode,
		State:          s.state,
		CurrentSeconds: s.current,
		StartSeconds:   s.start,
		Input:          s.input,
	}
}

// SetInput replaces the countdown text. It is refused unless stopped.
func (s *Session) SetInput(text string) bool {
	if s.state != Stopped {
		return false
	}
	s.input = text
	return true
}

// Start begins counting. From Stopped it loads the start value first; a
// countdown whose input parses to zero or less returns ErrInvalidInput and
// leaves the session untouched. From Paused it resumes without reloading.
func (s *Session) Start() error {
	if s.state == Stopped {
		if s.mode == CountDown {
			seconds := util.ParseTimeInput(s.input)
			if seconds <= 0 {
				log.Printf("timer %s: rejected countdown input %q", s.short(), s.input)
				return ErrInvalidInput
			}
			s.current, s.start = seconds, seconds
		} else {
			s.current, s.start = 0, 0
		}
	}
	s.enterRunning()
	log.Printf("timer %s: running (%s from %s)", s.short(), s.mode, util.FormatTime(s.current))
	return nil
}

// Pause toggles between Running and Paused. It does nothing when stopped.
func (s *Session) Pause() {
	switch s.state {
	case Running:
		s.state = Paused
		s.handle = 0
		log.Printf("timer %s: paused at %s", s.short(), util.FormatTime(s.current))
	case Paused:
		s.enterRunning()
		log.Printf("timer %s: resumed at %s", s.short(), util.FormatTime(s.current))
	}
}

// Stop halts the session and restores the value it started from.
func (s *Session) Stop() {
	s.halt()
	if s.mode == CountDown {
		s.current = s.start
	} else {
		s.current = 0
	}
	log.Printf("timer %s: stopped", s.short())
}

// Reset halts the session and recomputes its values from mode and input.
func (s *Session) Reset() {
	s.halt()
	s.recompute()
	log.Printf("timer %s: reset to %s", s.short(), util.FormatTime(s.current))
}

// ChangeMode switches direction. The session always ends up stopped.
func (s *Session) ChangeMode(m Mode) {
	s.mode = m
	s.halt()
	s.recompute()
	log.Printf("timer %s: mode %s", s.short(), m)
}

// Tick advances a running session by one second. Ticks whose handle is not
// the live one are ignored.
func (s *Session) Tick(h Handle) Event {
	if h == 0 || h != s.handle || s.state != Running {
		return EventStale
	}

	if s.mode == CountUp {
		s.current++
		return EventTicked
	}

	s.current--
	if s.current <= 0 {
		s.current = 0
		s.halt()
		log.Printf("timer %s: finished", s.short())
		return EventFinished
	}
	return EventTicked
}

// Close releases the live handle without touching the displayed values. It
// is called when the owning screen goes away.
func (s *Session) Close() {
	s.handle = 0
}

func (s *Session) enterRunning() {
	if s.state == Running && s.handle != 0 {
		return
	}
	s.state = Running
	s.seq++
	s.handle = s.seq
}

func (s *Session) halt() {
	s.state = Stopped
	s.handle = 0
}

func (s *Session) recompute() {
	if s.mode == CountDown {
		seconds := util.ParseTimeInput(s.input)
		s.current, s.start = seconds, seconds
		return
	}
	s.current, s.start = 0, 0
}

func (s *Session) short() string {
	if len(s.id) > 8 {
		return s.id[:8]
	}
	return s.id
}
