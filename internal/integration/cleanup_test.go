package integration

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/timer/internal/cli"
	"github.com/stigoleg/timer/internal/lifecycle"
)

const helperEnv = "TEST_TIMER_HELPER"

// TestCleanupOnSignal runs the headless timer in a child process, signals it
// once it is ticking and expects a clean exit with the final time printed.
func TestCleanupOnSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cleanup test in short mode")
	}
	sigs := testSignals()
	if len(sigs) == 0 {
		t.Skip("signals cannot be sent to child processes on this platform")
	}

	for _, sig := range sigs {
		t.Run(sig.String(), func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=TestTimerHelper")
			cmd.Env = append(os.Environ(), helperEnv+"=1")
			stdout, err := cmd.StdoutPipe()
			require.NoError(t, err)
			require.NoError(t, cmd.Start(), "helper process should start")

			lines := make(chan string, 16)
			var rest bytes.Buffer
			var mu sync.Mutex
			go func() {
				defer close(lines)
				sc := bufio.NewScanner(stdout)
				for sc.Scan() {
					mu.Lock()
					rest.WriteString(sc.Text() + "\n")
					mu.Unlock()
					lines <- sc.Text()
				}
			}()

			waitForLine(t, cmd, lines, "00:01")
			require.NoError(t, cmd.Process.Signal(sig), "should send signal")

			drained := make(chan struct{})
			go func() {
				defer close(drained)
				for range lines {
				}
			}()

			select {
			case <-drained:
			case <-time.After(5 * time.Second):
				_ = cmd.Process.Kill()
				t.Fatal("process did not exit within timeout")
			}
			assert.NoError(t, cmd.Wait(), "process should exit cleanly")

			mu.Lock()
			defer mu.Unlock()
			assert.Contains(t, rest.String(), "Stopped at")
		})
	}
}

func waitForLine(t *testing.T, cmd *exec.Cmd, lines <-chan string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatalf("helper exited before printing %q", want)
			}
			if strings.TrimSpace(l) == want {
				return
			}
		case <-timeout:
			_ = cmd.Process.Kill()
			t.Fatalf("helper never printed %q", want)
		}
	}
}

// TestTimerHelper is the child process for TestCleanupOnSignal.
func TestTimerHelper(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, helperSignals()...)

	dir, err := os.MkdirTemp("", "timer-helper")
	if err != nil {
		os.Exit(2)
	}
	defer os.RemoveAll(dir)
	os.Setenv("XDG_CONFIG_HOME", dir)
	os.Setenv("HOME", dir)

	app := &cli.App{
		Version:       "test",
		IsInteractive: func() bool { return false },
		Signals:       sigChan,
	}
	root := cli.NewRootCmd(app)
	root.SetArgs([]string{"run", "-m", "up", "--no-notify"})
	root.SetOut(os.Stdout)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}

// TestCleanupTimeout verifies that a hanging resource does not block exit.
func TestCleanupTimeout(t *testing.T) {
	m := lifecycle.NewManager(100 * time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	m.RegisterFunc("hang", func() error {
		<-release
		return nil
	})

	start := time.Now()
	errs := m.Execute()
	require.NotEmpty(t, errs)
	assert.True(t, errors.Is(errs[len(errs)-1], lifecycle.ErrTimeout))
	assert.Less(t, time.Since(start), time.Second, "cleanup should give up after its timeout")
}

// TestMultipleSignals verifies cleanup runs once however often it is triggered.
func TestMultipleSignals(t *testing.T) {
	m := lifecycle.NewManager(time.Second)
	var calls atomic.Int32
	m.RegisterFunc("count", func() error {
		calls.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Execute()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "cleanup should run exactly once")
}

// TestCleanupOnContextCancel verifies the headless command stops cleanly
// when its context ends.
func TestCleanupOnContextCancel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	pr, pw := io.Pipe()
	app := &cli.App{Version: "test", IsInteractive: func() bool { return false }}
	root := cli.NewRootCmd(app)
	root.SetArgs([]string{"run", "--no-notify"})
	root.SetOut(pw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- root.ExecuteContext(ctx)
		pw.Close()
	}()

	sc := bufio.NewScanner(pr)
	require.True(t, sc.Scan(), "expected the initial time")
	assert.Equal(t, "00:00", sc.Text())
	cancel()

	var tail []string
	for sc.Scan() {
		tail = append(tail, sc.Text())
	}
	require.NoError(t, <-done)
	require.NotEmpty(t, tail)
	assert.True(t, strings.HasPrefix(tail[len(tail)-1], "Stopped at"))
}
