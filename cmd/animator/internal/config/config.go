package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// File names searched for, in order.
const (
	YAMLFile = "animator.yaml"
	TOMLFile = "animator.toml"
)

// Config represents the optional animator.yaml / animator.toml configuration.
type Config struct {
	Animator AnimatorConfig `yaml:"animator" toml:"animator"`
	Probe    ProbeConfig    `yaml:"probe" toml:"probe"`
}

// AnimatorConfig contains animator settings.
type AnimatorConfig struct {
	Name             string   `yaml:"name,omitempty" toml:"name,omitempty"`
	Strategy         string   `yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	FPS              *float64 `yaml:"fps,omitempty" toml:"fps,omitempty"`
	IgnoreExceptions bool     `yaml:"ignore_exceptions,omitempty" toml:"ignore_exceptions,omitempty"`
	PrintExceptions  bool     `yaml:"print_exceptions,omitempty" toml:"print_exceptions,omitempty"`
	UpdateFPSFrames  int      `yaml:"update_fps_frames,omitempty" toml:"update_fps_frames,omitempty"`
}

// ProbeConfig contains deadlock probe settings.
type ProbeConfig struct {
	Title              string `yaml:"title,omitempty" toml:"title,omitempty"`
	Duration           string `yaml:"duration,omitempty" toml:"duration,omitempty"`
	RestartPeriod      string `yaml:"restart_period,omitempty" toml:"restart_period,omitempty"`
	OnCurrentGoroutine bool   `yaml:"on_current_goroutine,omitempty" toml:"on_current_goroutine,omitempty"`
	Width              int    `yaml:"width,omitempty" toml:"width,omitempty"`
	Height             int    `yaml:"height,omitempty" toml:"height,omitempty"`
}

// Strategies accepted by Resolve.
const (
	StrategyDefault = "default"
	StrategyUI      = "ui"
)

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	Source     string
	ModulePath string

	Name             string
	Strategy         string
	FPS              float64
	Paced            bool
	IgnoreExceptions bool
	PrintExceptions  bool
	UpdateFPSFrames  int

	Title              string
	Duration           time.Duration
	RestartPeriod      time.Duration
	OnCurrentGoroutine bool
	Width              int
	Height             int
}

// LoadOptional reads animator.yaml or animator.toml if present. The returned
// path is empty when neither exists.
func LoadOptional(dir string) (*Config, string, error) {
	for _, name := range []string{YAMLFile, TOMLFile} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to read %s: %w", name, err)
		}

		cfg, err := parse(name, data)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return &Config{}, "", nil
}

func parse(name string, data []byte) (*Config, error) {
	var cfg Config
	var err error
	if filepath.Ext(name) == ".toml" {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &cfg, nil
}

// Resolve loads the configuration (if present) and resolves defaults. A
// directory without go.mod resolves with an empty ModulePath.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, source, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Root:               dir,
		Source:             source,
		ModulePath:         modulePath,
		Name:               strings.TrimSpace(cfg.Animator.Name),
		Strategy:           strings.ToLower(strings.TrimSpace(cfg.Animator.Strategy)),
		IgnoreExceptions:   cfg.Animator.IgnoreExceptions,
		PrintExceptions:    cfg.Animator.PrintExceptions,
		UpdateFPSFrames:    cfg.Animator.UpdateFPSFrames,
		Title:              strings.TrimSpace(cfg.Probe.Title),
		OnCurrentGoroutine: cfg.Probe.OnCurrentGoroutine,
		Width:              cfg.Probe.Width,
		Height:             cfg.Probe.Height,
	}

	if r.Strategy == "" {
		r.Strategy = StrategyDefault
	}
	if cfg.Animator.FPS != nil {
		r.FPS = *cfg.Animator.FPS
		r.Paced = true
	}
	if r.Title == "" {
		r.Title = defaultTitle(modulePath, dir)
	}
	if r.Width == 0 {
		r.Width = 512
	}
	if r.Height == 0 {
		r.Height = 512
	}
	if r.Duration, err = parseDuration("probe.duration", cfg.Probe.Duration, 5*time.Second); err != nil {
		return nil, err
	}
	if r.RestartPeriod, err = parseDuration("probe.restart_period", cfg.Probe.RestartPeriod, 200*time.Millisecond); err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the resolved values. It is called again after command-line
// overrides are applied.
func (r *Resolved) Validate() error {
	switch r.Strategy {
	case StrategyDefault, StrategyUI:
	default:
		return fmt.Errorf("animator.strategy must be %q or %q (got %q)", StrategyDefault, StrategyUI, r.Strategy)
	}
	if r.FPS < 0 {
		return fmt.Errorf("animator.fps cannot be negative (got %v)", r.FPS)
	}
	if r.UpdateFPSFrames < 0 {
		return fmt.Errorf("animator.update_fps_frames cannot be negative (got %d)", r.UpdateFPSFrames)
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("probe size cannot be negative (got %dx%d)", r.Width, r.Height)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("probe.duration must be positive (got %s)", r.Duration)
	}
	if r.RestartPeriod < 0 {
		return fmt.Errorf("probe.restart_period cannot be negative (got %s)", r.RestartPeriod)
	}
	return nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultTitle(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if modName, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "Generic Title"
	}
	return base
}
