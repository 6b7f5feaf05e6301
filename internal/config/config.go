// Package config resolves the timer's settings from defaults, an optional
// YAML file and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stigoleg/timer/internal/layout"
	"github.com/stigoleg/timer/internal/timer"
	"github.com/stigoleg/timer/internal/util"
)

// Config holds every user-tunable setting.
type Config struct {
	Mode       string  `yaml:"mode"`
	Duration   string  `yaml:"duration"`
	Layout     string  `yaml:"layout"`
	CellAspect float64 `yaml:"cell_aspect"`
	Notify     bool    `yaml:"notify"`
	LogFile    string  `yaml:"log_file"`

	// Path is the config file that was loaded, if any.
	Path        string `yaml:"-"`
	ShowVersion bool   `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mode:       "up",
		Duration:   timer.DefaultInput,
		Layout:     layout.PolicyPortrait.String(),
		CellAspect: layout.DefaultCellAspect,
		Notify:     true,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "timer", "config.yaml")
}

// LoadFile merges the YAML file at path into cfg. Keys missing from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Path = path
	return nil
}

// Validate checks the settings and normalises Duration to countdown text.
func (c *Config) Validate() error {
	if _, err := ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := layout.ParsePolicy(c.Layout); err != nil {
		return err
	}
	if c.CellAspect <= 0 {
		return fmt.Errorf("cell_aspect must be positive, got %v", c.CellAspect)
	}
	if strings.TrimSpace(c.Duration) == "" {
		c.Duration = timer.DefaultInput
		return nil
	}
	d, err := util.ParseDuration(c.Duration)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	c.Duration = util.InputText(int(d.Seconds()))
	return nil
}

// TimerMode returns the configured start mode. Call after Validate.
func (c Config) TimerMode() timer.Mode {
	m, _ := ParseMode(c.Mode)
	return m
}

// LayoutPolicy returns the configured layout policy. Call after Validate.
func (c Config) LayoutPolicy() layout.Policy {
	p, _ := layout.ParsePolicy(c.Layout)
	return p
}

// ParseMode reads a counting direction.
func ParseMode(s string) (timer.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "up", "countup", "count-up", "stopwatch":
		return timer.CountUp, nil
	case "down", "countdown", "count-down":
		return timer.CountDown, nil
	}
	return timer.CountUp, fmt.Errorf("unknown mode %q (want up or down)", s)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
