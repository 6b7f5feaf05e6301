// Package cli wires configuration, the timer engine and its front ends into
// the timer command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/stigoleg/timer/internal/config"
	"github.com/stigoleg/timer/internal/lifecycle"
	"github.com/stigoleg/timer/internal/notify"
	"github.com/stigoleg/timer/internal/timer"
	"github.com/stigoleg/timer/internal/ui"
)

// App holds what the commands need from the outside world. Zero fields fall
// back to the real terminal, clock and notifier.
type App struct {
	Version string

	// IsInteractive reports whether the TUI may take over the terminal.
	IsInteractive func() bool

	// Signals ends the program early when it delivers.
	Signals <-chan os.Signal

	// Ticker drives the headless runner.
	Ticker timer.TickerFunc

	// Notifier replaces the desktop notifier when notifications are enabled.
	Notifier notify.Notifier
}

// NewRootCmd creates the top-level "timer" command and its subcommands.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "timer",
		Short: "Stopwatch and countdown timer for the terminal",
		Long: `A simple, cross-platform timer.

Without a subcommand the interactive TUI starts when the terminal allows it.
Otherwise the timer runs headless and prints the time every second.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.BindFlags(root.PersistentFlags())

	root.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := flags.Resolve()
		if err != nil {
			return err
		}
		if cfg.ShowVersion {
			app.printVersion(cmd.OutOrStdout())
			return nil
		}
		if app.interactive() {
			return app.runTUI(cmd.Context(), cfg)
		}
		return app.runHeadless(cmd.Context(), cmd.OutOrStdout(), cfg)
	}

	root.AddCommand(
		newRunCmd(app, flags),
		newAboutCmd(app),
	)
	return root
}

func newRunCmd(app *App, flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the timer without the TUI, printing the time every second",
		Example: `  timer run -m down -d 5:00
  timer run --mode up`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			if cfg.ShowVersion {
				app.printVersion(cmd.OutOrStdout())
				return nil
			}
			return app.runHeadless(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func newAboutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show information about the app",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), ui.AboutText(app.Version))
		},
	}
}

func (a *App) printVersion(w io.Writer) {
	fmt.Fprintf(w, "timer version %s\n", a.Version)
}

func (a *App) interactive() bool {
	if a.IsInteractive != nil {
		return a.IsInteractive()
	}
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

func (a *App) notifier(cfg *config.Config) notify.Notifier {
	switch {
	case !cfg.Notify:
		return notify.Nop{}
	case a.Notifier != nil:
		return a.Notifier
	}
	return notify.NewDesktop(notify.Bell{W: os.Stderr})
}

// setupLogging routes the standard logger to cfg.LogFile, or discards it so
// log lines never mix with the timer output.
func setupLogging(cfg *config.Config, cleanup *lifecycle.Manager) error {
	prev, prevFlags, prevPrefix := log.Writer(), log.Flags(), log.Prefix()
	restore := func() {
		log.SetOutput(prev)
		log.SetFlags(prevFlags)
		log.SetPrefix(prevPrefix)
	}

	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		cleanup.RegisterFunc("log", func() error {
			restore()
			return nil
		})
		return nil
	}

	f, err := tea.LogToFile(cfg.LogFile, "timer")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	cleanup.RegisterFunc("log", func() error {
		restore()
		return f.Close()
	})
	return nil
}

// watchSignals calls fn when a signal arrives before done is closed.
func (a *App) watchSignals(done <-chan struct{}, fn func(os.Signal)) {
	if a.Signals == nil {
		return
	}
	go func() {
		select {
		case sig := <-a.Signals:
			log.Printf("cli: received signal %v", sig)
			fn(sig)
		case <-done:
		}
	}()
}

func (a *App) runTUI(ctx context.Context, cfg *config.Config) error {
	cleanup := lifecycle.NewManager(lifecycle.DefaultTimeout)
	defer logErrors(cleanup)
	if err := setupLogging(cfg, cleanup); err != nil {
		return err
	}

	m := ui.New(ui.Options{
		Mode:       cfg.TimerMode(),
		Input:      cfg.Duration,
		Policy:     cfg.LayoutPolicy(),
		CellAspect: cfg.CellAspect,
		Notifier:   a.notifier(cfg),
		Version:    a.Version,
	})
	cleanup.RegisterFunc("screen", m.Close)

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	}
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	p := tea.NewProgram(m, opts...)

	done := make(chan struct{})
	defer close(done)
	a.watchSignals(done, func(os.Signal) {
		logErrors(cleanup)
		p.Kill()
	})

	log.Printf("cli: starting tui (version %s)", a.Version)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func logErrors(cleanup *lifecycle.Manager) {
	for _, err := range cleanup.Execute() {
		log.Printf("cli: cleanup: %v", err)
	}
}
