// Package log provides named, leveled loggers shared by the animator packages
// and the command line tool.
//
// Every package logs through its own module name ("animator", "uithread",
// "canvas", ...). The global level applies to all of them; SetModuleLevel
// overrides it for a single module, and overrides survive SetSink.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is a log verbosity, from most to least verbose.
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[Level]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Error:   "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func (l Level) backend() logging.Level {
	switch l {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	}
	return logging.NOTICE
}

// ParseLevel maps a level name such as "debug" or "WARN" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "notice":
		return Notice, nil
	case "warn", "warning":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return Notice, fmt.Errorf("log: unknown level %q", s)
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// Logger is the logging surface used across the module.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger. The name shows up in the module column.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

var (
	mu        sync.Mutex
	formatted logging.Backend
	backend   logging.LeveledBackend
	global  = Notice
	modules = map[string]Level{}
)

// SetSink routes all output to sink, keeping the configured levels.
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	formatted = logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	installLocked()
}

// SetLevel sets the verbosity of every module without an override.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	global = level
	applyLocked()
}

// SetModuleLevel overrides the verbosity of one module.
func SetModuleLevel(module string, level Level) {
	mu.Lock()
	defer mu.Unlock()
	modules[module] = level
	applyLocked()
}

// ResetModuleLevels drops all per-module overrides.
func ResetModuleLevels() {
	mu.Lock()
	defer mu.Unlock()
	modules = map[string]Level{}
	// The leveled backend cannot forget a module, so it is rebuilt.
	installLocked()
}

// GetLevel returns the effective verbosity of module.
func GetLevel(module string) Level {
	mu.Lock()
	defer mu.Unlock()
	if level, ok := modules[module]; ok {
		return level
	}
	return global
}

// ParseModuleLevels applies "module=level" pairs; a bare level sets the
// global verbosity.
func ParseModuleLevels(specs []string) error {
	for _, spec := range specs {
		module, name, found := strings.Cut(spec, "=")
		if !found {
			name, module = module, ""
		}
		level, err := ParseLevel(name)
		if err != nil {
			return err
		}
		if module = strings.TrimSpace(module); module == "" {
			SetLevel(level)
		} else {
			SetModuleLevel(module, level)
		}
	}
	return nil
}

func installLocked() {
	backend = logging.AddModuleLevel(formatted)
	applyLocked()
	logging.SetBackend(backend)
}

func applyLocked() {
	backend.SetLevel(global.backend(), "")
	for module, level := range modules {
		backend.SetLevel(level.backend(), module)
	}
}

func init() {
	SetSink(os.Stderr)
}
