// Package notify tells the user a countdown has finished.
package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// commandTimeout limits how long a notification command may run.
const commandTimeout = 3 * time.Second

// Notifier delivers a user-facing alert.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }

// Bell writes the terminal bell to w.
type Bell struct {
	W io.Writer
}

func (b Bell) Notify(context.Context, string, string) error {
	if b.W == nil {
		return nil
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// onPath reports whether a notification tool is installed.
func onPath(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// runFunc runs an external command.
type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (output: %q)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Desktop posts a desktop notification through notify-send or osascript,
// and rings Fallback when neither is available or the command fails.
type Desktop struct {
	Fallback Notifier

	goos       string
	hasCommand func(string) bool
	run        runFunc
}

// NewDesktop returns a Desktop notifier for the running OS.
func NewDesktop(fallback Notifier) *Desktop {
	if fallback == nil {
		fallback = Nop{}
	}
	return &Desktop{
		Fallback:   fallback,
		goos:       runtime.GOOS,
		hasCommand: onPath,
		run:        runCommand,
	}
}

// Notify sends the alert.
func (d *Desktop) Notify(ctx context.Context, title, body string) error {
	name, args, ok := d.command(title, body)
	if !ok {
		return d.Fallback.Notify(ctx, title, body)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := d.run(ctx, name, args...); err != nil {
		log.Printf("notify: %v", err)
		return d.Fallback.Notify(ctx, title, body)
	}
	return nil
}

func (d *Desktop) command(title, body string) (string, []string, bool) {
	switch d.goos {
	case "linux", "freebsd", "openbsd":
		if d.hasCommand("notify-send") {
			return "notify-send", []string{"--app-name=timer", title, body}, true
		}
	case "darwin":
		if d.hasCommand("osascript") {
			script := fmt.Sprintf("display notification %s with title %s", appleQuote(body), appleQuote(title))
			return "osascript", []string{"-e", script}, true
		}
	}
	return "", nil, false
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
