package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTickers hands out manually driven tickers and records which are live.
type fakeTickers struct {
	mu      sync.Mutex
	chans   []chan time.Time
	stopped []bool
}

func (f *fakeTickers) new(time.Duration) (<-chan time.Time, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := make(chan time.Time)
	idx := len(f.chans)
	f.chans = append(f.chans, c)
	f.stopped = append(f.stopped, false)
	return c, func() {
		f.mu.Lock()
		f.stopped[idx] = true
		f.mu.Unlock()
	}
}

func (f *fakeTickers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chans)
}

// fire delivers one tick to ticker i and reports whether it was consumed.
func (f *fakeTickers) fire(i int) bool {
	f.mu.Lock()
	c := f.chans[i]
	f.mu.Unlock()
	select {
	case c <- time.Now():
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

func (f *fakeTickers) isStopped(i int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped[i]
}

func newTestRunner(t *testing.T, opts ...RunnerOption) (*Runner, *fakeTickers) {
	t.Helper()
	ft := &fakeTickers{}
	r := NewRunner(NewSession(), append([]RunnerOption{WithTicker(ft.new)}, opts...)...)
	t.Cleanup(func() { _ = r.Close() })
	return r, ft
}

func TestRunnerCountsUp(t *testing.T) {
	ticks := make(chan Snapshot, 8)
	r, ft := newTestRunner(t, OnTick(func(s Snapshot) { ticks <- s }))

	require.NoError(t, r.Start())
	require.Equal(t, 1, ft.count())
	assert.True(t, r.IsRunning())

	for i := 1; i <= 3; i++ {
		require.True(t, ft.fire(0))
		snap := <-ticks
		assert.Equal(t, i, snap.CurrentSeconds)
	}
}

func TestRunnerPauseCancelsTicker(t *testing.T) {
	r, ft := newTestRunner(t)
	require.NoError(t, r.Start())

	r.Pause()
	assert.False(t, r.IsRunning())
	assert.Eventually(t, func() bool { return ft.isStopped(0) }, time.Second, 5*time.Millisecond)
	assert.False(t, ft.fire(0), "cancelled ticker must not be read")

	r.Pause()
	require.Equal(t, 2, ft.count())
	assert.True(t, r.IsRunning())
}

func TestRunnerExitsCancelTicker(t *testing.T) {
	exits := map[string]func(*Runner){
		"stop":        (*Runner).Stop,
		"reset":       (*Runner).Reset,
		"change mode": func(r *Runner) { r.ChangeMode(CountDown) },
	}

	for name, exit := range exits {
		t.Run(name, func(t *testing.T) {
			r, ft := newTestRunner(t)
			require.NoError(t, r.Start())
			require.True(t, ft.fire(0))

			exit(r)

			assert.False(t, r.IsRunning())
			assert.Eventually(t, func() bool { return ft.isStopped(0) }, time.Second, 5*time.Millisecond)
			assert.Equal(t, Stopped, r.Snapshot().State)
		})
	}
}

func TestRunnerCountdownFinishes(t *testing.T) {
	finished := make(chan Snapshot, 1)
	r, ft := newTestRunner(t, OnFinish(func(s Snapshot) { finished <- s }))
	r.ChangeMode(CountDown)
	require.True(t, r.SetInput("2"))
	require.NoError(t, r.Start())

	require.True(t, ft.fire(0))
	require.True(t, ft.fire(0))

	select {
	case snap := <-finished:
		assert.Equal(t, 0, snap.CurrentSeconds)
		assert.Equal(t, Stopped, snap.State)
	case <-time.After(time.Second):
		t.Fatal("expected finish callback")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
	assert.False(t, r.IsRunning())
	assert.Eventually(t, func() bool { return ft.isStopped(0) }, time.Second, 5*time.Millisecond)
}

func TestRunnerInvalidInput(t *testing.T) {
	r, ft := newTestRunner(t)
	r.ChangeMode(CountDown)
	r.SetInput("0:00")

	assert.ErrorIs(t, r.Start(), ErrInvalidInput)
	assert.Equal(t, 0, ft.count())
	assert.False(t, r.IsRunning())
}

func TestRunnerClose(t *testing.T) {
	r, ft := newTestRunner(t)
	require.NoError(t, r.Start())

	require.NoError(t, r.Close())

	assert.True(t, ft.isStopped(0))
	assert.False(t, ft.fire(0))
	assert.ErrorIs(t, r.Start(), ErrClosed)
	r.Pause()
	assert.False(t, r.IsRunning())
	require.NoError(t, r.Close())
}

func TestRunnerWaitHonoursContext(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.Canceled)
}

func TestRunnerRealTicker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}
	r := NewRunner(nil, WithPeriod(10*time.Millisecond))
	defer r.Close()
	r.ChangeMode(CountDown)
	r.SetInput("3")
	require.NoError(t, r.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
	assert.Equal(t, 0, r.Snapshot().CurrentSeconds)
}
