package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stigoleg/timer/internal/cli"
)

// This small tool generates shell completions through cobra and a minimal
// roff man page built from the command's flags.

const appName = "timer"

func main() {
	root := cli.NewRootCmd(&cli.App{Version: "docs"})

	if err := writeCompletions(root, filepath.Join("docs", "completions")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeMan(root, "man"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeCompletions(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := root.GenBashCompletionFileV2(filepath.Join(dir, appName+".bash"), true); err != nil {
		return fmt.Errorf("bash completion: %w", err)
	}
	if err := root.GenZshCompletionFile(filepath.Join(dir, "_"+appName)); err != nil {
		return fmt.Errorf("zsh completion: %w", err)
	}
	if err := root.GenFishCompletionFile(filepath.Join(dir, appName+".fish"), true); err != nil {
		return fmt.Errorf("fish completion: %w", err)
	}
	return nil
}

func writeMan(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, appName+".1"), []byte(manPage(root)), 0o644)
}

func manPage(root *cobra.Command) string {
	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(appName) + "\" \"1\" \"\" \"" + appName + "\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + appName + " \\- " + root.Short + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + appName + "\n[\\fIcommand\\fR] [\\fIflags\\fR]\n")
	b.WriteString(".SH DESCRIPTION\n" + roffEscape(root.Long) + "\n")

	b.WriteString(".SH COMMANDS\n")
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		b.WriteString(".TP\n\\fB" + c.Name() + "\\fR\n" + roffEscape(c.Short) + "\n")
	}

	b.WriteString(".SH OPTIONS\n")
	root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		b.WriteString(".TP\n\\fB" + flagNames(f) + "\\fR\n" + roffEscape(f.Usage) + "\n")
	})

	b.WriteString(".SH EXAMPLES\n")
	b.WriteString(".TP\n\\fB" + appName + "\\fR\nStart the interactive TUI.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-m down \\-d 5:00\\fR\nStart with a five minute countdown.\n")
	b.WriteString(".TP\n\\fB" + appName + " run \\-m down \\-d 90\\fR\nCount down 90 seconds without the TUI.\n")
	b.WriteString(".SH FILES\n.TP\n\\fI$XDG_CONFIG_HOME/timer/config.yaml\\fR\nOptional configuration file.\n")
	return b.String()
}

func flagNames(f *pflag.Flag) string {
	names := "\\-\\-" + strings.ReplaceAll(f.Name, "-", "\\-")
	if f.Shorthand != "" {
		names = "\\-" + f.Shorthand + ", " + names
	}
	if f.Value.Type() != "bool" {
		names += " <" + f.Value.Type() + ">"
	}
	return names
}

func roffEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "-", "\\-")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, ".") || strings.HasPrefix(l, "'") {
			lines[i] = "\\&" + l
		}
	}
	return strings.Join(lines, "\n")
}
