package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/stigoleg/timer/internal/ui"
)

// Flags holds the command-line values bound to a flag set.
type Flags struct {
	fs *pflag.FlagSet

	configPath string
	mode       string
	duration   string
	layout     string
	cellAspect float64
	logFile    string
	noNotify   bool
	version    bool
}

// BindFlags registers the timer flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Default()

	fs.StringVar(&f.configPath, "config", "", "Path to a YAML config file (default: user config dir)")
	fs.StringVarP(&f.mode, "mode", "m", def.Mode, "Start mode: up or down")
	fs.StringVarP(&f.duration, "duration", "d", def.Duration, "Countdown length (e.g., \"5:00\", \"90\" or \"2h30m\")")
	fs.StringVar(&f.layout, "layout", def.Layout, "Layout: portrait, landscape or auto")
	fs.Float64Var(&f.cellAspect, "cell-aspect", def.CellAspect, "Terminal cell height/width ratio used by --layout=auto")
	fs.StringVar(&f.logFile, "log-file", "", "Write debug logs to this file")
	fs.BoolVar(&f.noNotify, "no-notify", false, "Disable the desktop notification when a countdown finishes")
	fs.BoolVarP(&f.version, "version", "v", false, "Show version information")
	return f
}

// Resolve builds the effective config: defaults, then the config file, then
// any flags set explicitly.
func (f *Flags) Resolve() (*Config, error) {
	cfg := Default()

	path := f.configPath
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil && (explicit || !isNotExist(err)) {
			return nil, err
		}
	}

	if f.fs.Changed("mode") {
		cfg.Mode = f.mode
	}
	if f.fs.Changed("duration") {
		cfg.Duration = f.duration
	}
	if f.fs.Changed("layout") {
		cfg.Layout = f.layout
	}
	if f.fs.Changed("cell-aspect") {
		cfg.CellAspect = f.cellAspect
	}
	if f.fs.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if f.noNotify {
		cfg.Notify = false
	}
	cfg.ShowVersion = f.version

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FormatError renders a config error for the terminal. Duration errors keep
// their format help in a bordered box.
func FormatError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "Valid formats:") {
		parts := strings.SplitN(msg, "\n\n", 2)
		if len(parts) == 2 {
			errorBox := ui.Current.Help.
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FF4040"))

			header := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF4040")).
				Render(parts[0])

			details := lipgloss.NewStyle().
				Foreground(lipgloss.Color("#999999")).
				Render(parts[1])

			return errorBox.Render(fmt.Sprintf("%s\n\n%s", header, details))
		}
	}
	return ui.Current.Error.Render(msg)
}
