package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/stigoleg/timer/internal/config"
	"github.com/stigoleg/timer/internal/lifecycle"
	"github.com/stigoleg/timer/internal/timer"
)

// notifyTimeout bounds the finish notification in headless mode.
const notifyTimeout = 5 * time.Second

const (
	finishedTitle = "Timer Finished"
	finishedBody  = "Countdown has reached zero!"
)

// lockedWriter serialises writes from the ticker goroutine and the caller.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// runHeadless starts the configured timer and prints the time on every
// tick. A countdown returns when it reaches zero; a count-up session runs
// until ctx is done or a signal arrives.
func (a *App) runHeadless(ctx context.Context, w io.Writer, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cleanup := lifecycle.NewManager(lifecycle.DefaultTimeout)
	defer logErrors(cleanup)
	if err := setupLogging(cfg, cleanup); err != nil {
		return err
	}

	out := &lockedWriter{w: w}
	r := timer.NewRunner(nil,
		timer.WithTicker(a.Ticker),
		timer.OnTick(func(s timer.Snapshot) {
			fmt.Fprintln(out, s.Display())
		}),
	)
	cleanup.RegisterFunc("runner", r.Close)

	r.SetInput(cfg.Duration)
	r.ChangeMode(cfg.TimerMode())
	fmt.Fprintln(out, r.Snapshot().Display())

	if err := r.Start(); err != nil {
		if errors.Is(err, timer.ErrInvalidInput) {
			return fmt.Errorf("%w (duration %q)", err, cfg.Duration)
		}
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.watchSignals(ctx.Done(), func(os.Signal) { cancel() })

	err := r.Wait(ctx)
	_ = r.Close()

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintf(out, "Stopped at %s\n", r.Snapshot().Display())
			return nil
		}
		return err
	}

	fmt.Fprintf(out, "%s: %s\n", finishedTitle, finishedBody)
	nctx, ncancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer ncancel()
	if err := a.notifier(cfg).Notify(nctx, finishedTitle, finishedBody); err != nil {
		fmt.Fprintf(os.Stderr, "notification failed: %v\n", err)
	}
	return nil
}
