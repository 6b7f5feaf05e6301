package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stigoleg/timer/internal/cli"
)

func TestManPage(t *testing.T) {
	page := manPage(cli.NewRootCmd(&cli.App{Version: "test"}))

	for _, want := range []string{".TH \"TIMER\"", "\\fBrun\\fR", "\\fBabout\\fR", "\\-m, \\-\\-mode <string>", "\\-\\-no\\-notify\\fR"} {
		if !strings.Contains(page, want) {
			t.Errorf("expected man page to contain %q", want)
		}
	}
}

func TestWriteCompletions(t *testing.T) {
	dir := t.TempDir()
	if err := writeCompletions(cli.NewRootCmd(&cli.App{Version: "test"}), dir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"timer.bash", "_timer", "timer.fish"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("expected %s to be non-empty", name)
		}
	}
}
