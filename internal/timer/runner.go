package timer

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// DefaultPeriod is the tick period of a runner.
const DefaultPeriod = time.Second

// ErrClosed is returned by Runner operations after Close.
var ErrClosed = errors.New("timer runner closed")

// TickerFunc creates a ticker delivering on the returned channel until stop
// is called. It lets tests drive a Runner without real time.
type TickerFunc func(period time.Duration) (c <-chan time.Time, stop func())

func realTicker(period time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(period)
	return t.C, t.Stop
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithPeriod overrides the tick period.
func WithPeriod(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.period = d
		}
	}
}

// WithTicker overrides the ticker factory.
func WithTicker(fn TickerFunc) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.newTicker = fn
		}
	}
}

// OnTick registers a callback invoked after every applied tick.
func OnTick(fn func(Snapshot)) RunnerOption {
	return func(r *Runner) { r.onTick = fn }
}

// OnFinish registers a callback invoked when a countdown reaches zero.
func OnFinish(fn func(Snapshot)) RunnerOption {
	return func(r *Runner) { r.onFinish = fn }
}

// Runner drives a Session from a periodic ticker. Every operation re-syncs
// the ticker with the session's handle: the old ticker goroutine is
// cancelled before the call returns and a new one is started only while the
// session is running.
type Runner struct {
	mu      sync.Mutex
	session *Session
	period  time.Duration

	newTicker TickerFunc
	onTick    func(Snapshot)
	onFinish  func(Snapshot)

	armed  Handle
	cancel context.CancelFunc
	wg     sync.WaitGroup

	finished chan struct{}
	closed   bool
}

// NewRunner wraps s. A nil session gets a fresh one.
func NewRunner(s *Session, opts ...RunnerOption) *Runner {
	if s == nil {
		s = NewSession()
	}
	r := &Runner{
		session:   s,
		period:    DefaultPeriod,
		newTicker: realTicker,
		finished:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the current session state.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Snapshot()
}

// IsRunning reports whether a ticker is live.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.armed != 0
}

// SetInput edits the countdown text while stopped.
func (r *Runner) SetInput(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.SetInput(text)
}

// Start starts or resumes the session.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if err := r.session.Start(); err != nil {
		return err
	}
	r.syncLocked()
	return nil
}

// Pause toggles pause.
func (r *Runner) Pause() {
	r.apply(r.session.Pause)
}

// Stop stops the session.
func (r *Runner) Stop() {
	r.apply(r.session.Stop)
}

// Reset resets the session.
func (r *Runner) Reset() {
	r.apply(r.session.Reset)
}

// ChangeMode switches the counting direction.
func (r *Runner) ChangeMode(m Mode) {
	r.apply(func() { r.session.ChangeMode(m) })
}

// Finished is signalled once each time a countdown reaches zero.
func (r *Runner) Finished() <-chan struct{} {
	return r.finished
}

// Wait blocks until a countdown finishes or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	select {
	case <-r.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the ticker and waits for its goroutine to exit. Further
// operations are ignored.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.session.Close()
	r.disarmLocked()
	r.mu.Unlock()

	r.wg.Wait()
	log.Printf("runner: closed")
	return nil
}

func (r *Runner) apply(op func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	op()
	r.syncLocked()
}

// syncLocked makes the live ticker match the session handle.
func (r *Runner) syncLocked() {
	h := r.session.Handle()
	if h == r.armed {
		return
	}
	r.disarmLocked()
	if h == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c, stop := r.newTicker(r.period)
	r.armed = h
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c:
				if !r.tick(h) {
					return
				}
			}
		}
	}()
}

func (r *Runner) disarmLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.armed = 0
}

// tick applies one tick and reports whether the ticker should keep going.
func (r *Runner) tick(h Handle) bool {
	r.mu.Lock()
	ev := r.session.Tick(h)
	snap := r.session.Snapshot()
	if ev == EventFinished {
		r.disarmLocked()
	}
	onTick, onFinish := r.onTick, r.onFinish
	r.mu.Unlock()

	switch ev {
	case EventStale:
		return false
	case EventFinished:
		if onTick != nil {
			onTick(snap)
		}
		if onFinish != nil {
			onFinish(snap)
		}
		select {
		case r.finished <- struct{}{}:
		default:
		}
		return false
	}

	if onTick != nil {
		onTick(snap)
	}
	return true
}
