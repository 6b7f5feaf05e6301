package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/timer/internal/timer"
)

type recorder struct {
	mu     sync.Mutex
	titles []string
}

func (r *recorder) Notify(_ context.Context, title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

// manualClock hands every runner the same unbuffered channel so a send
// completes only once a ticker goroutine has taken the tick.
type manualClock struct {
	c chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{c: make(chan time.Time)}
}

func (m *manualClock) ticker(time.Duration) (<-chan time.Time, func()) {
	return m.c, func() {}
}

func (m *manualClock) tick(t *testing.T) {
	t.Helper()
	select {
	case m.c <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("tick was not consumed")
	}
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
}

func testApp(clock *manualClock, n *recorder) *App {
	return &App{
		Version:       "1.2.3",
		IsInteractive: func() bool { return false },
		Ticker:        clock.ticker,
		Notifier:      n,
	}
}

// execute runs the command tree in the background and returns its output
// buffer and a channel carrying the result.
func execute(ctx context.Context, app *App, args ...string) (*bytes.Buffer, *lockedWriter, <-chan error) {
	var buf bytes.Buffer
	out := &lockedWriter{w: &buf}
	cmd := NewRootCmd(app)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	errCh := make(chan error, 1)
	go func() { errCh <- cmd.ExecuteContext(ctx) }()
	return &buf, out, errCh
}

func wait(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("command did not return")
		return nil
	}
}

func output(out *lockedWriter, buf *bytes.Buffer) string {
	out.mu.Lock()
	defer out.mu.Unlock()
	return buf.String()
}

// waitFor blocks until the output contains want, so a tick has been fully
// applied before the test moves on.
func waitFor(t *testing.T, out *lockedWriter, buf *bytes.Buffer, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(output(out, buf), want)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRunCountdown(t *testing.T) {
	isolate(t)
	clock, rec := newManualClock(), &recorder{}

	buf, out, errCh := execute(context.Background(), testApp(clock, rec), "run", "-m", "down", "-d", "0:02")
	clock.tick(t)
	clock.tick(t)

	require.NoError(t, wait(t, errCh))
	assert.Equal(t, "00:02\n00:01\n00:00\nTimer Finished: Countdown has reached zero!\n", output(out, buf))
	assert.Equal(t, 1, rec.count())
}

func TestRootFallsBackToHeadless(t *testing.T) {
	isolate(t)
	clock, rec := newManualClock(), &recorder{}

	buf, out, errCh := execute(context.Background(), testApp(clock, rec), "--mode", "down", "--duration", "1", "--no-notify")
	clock.tick(t)

	require.NoError(t, wait(t, errCh))
	assert.Contains(t, output(out, buf), "00:00\nTimer Finished")
	assert.Zero(t, rec.count(), "notifications were disabled")
}

func TestRunCountUpUntilCancelled(t *testing.T) {
	isolate(t)
	clock := newManualClock()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buf, out, errCh := execute(ctx, testApp(clock, &recorder{}), "run")
	clock.tick(t)
	clock.tick(t)
	waitFor(t, out, buf, "00:02\n")
	cancel()

	require.NoError(t, wait(t, errCh))
	assert.Equal(t, "00:00\n00:01\n00:02\nStopped at 00:02\n", output(out, buf))
}

func TestRunStopsOnSignal(t *testing.T) {
	isolate(t)
	clock := newManualClock()
	sigs := make(chan os.Signal, 1)
	app := testApp(clock, &recorder{})
	app.Signals = sigs

	buf, out, errCh := execute(context.Background(), app, "run", "-m", "up")
	clock.tick(t)
	waitFor(t, out, buf, "00:01\n")
	sigs <- syscall.SIGTERM

	require.NoError(t, wait(t, errCh))
	assert.Contains(t, output(out, buf), "Stopped at 00:01")
}

func TestRunRejectsZeroCountdown(t *testing.T) {
	isolate(t)

	_, _, errCh := execute(context.Background(), testApp(newManualClock(), &recorder{}), "run", "-m", "down", "-d", "0")
	err := wait(t, errCh)
	require.Error(t, err)
	assert.ErrorIs(t, err, timer.ErrInvalidInput)
}

func TestInvalidDurationFlag(t *testing.T) {
	isolate(t)

	_, _, errCh := execute(context.Background(), testApp(newManualClock(), &recorder{}), "run", "-d", "abc")
	err := wait(t, errCh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration format")
}

func TestVersion(t *testing.T) {
	isolate(t)

	for _, args := range [][]string{{"-v"}, {"--version"}, {"run", "-v"}} {
		buf, out, errCh := execute(context.Background(), testApp(newManualClock(), &recorder{}), args...)
		require.NoError(t, wait(t, errCh))
		assert.Equal(t, "timer version 1.2.3\n", output(out, buf), "args %v", args)
	}
}

func TestAboutCommand(t *testing.T) {
	isolate(t)

	buf, out, errCh := execute(context.Background(), testApp(newManualClock(), &recorder{}), "about")
	require.NoError(t, wait(t, errCh))

	text := output(out, buf)
	assert.Contains(t, text, "Timer App")
	assert.Contains(t, text, "Version 1.2.3")
	assert.Contains(t, text, "Count up and count down modes")
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)

	buf, out, errCh := execute(context.Background(), testApp(newManualClock(), &recorder{}), "completion", "bash")
	require.NoError(t, wait(t, errCh))
	assert.Contains(t, output(out, buf), "bash completion")
}
