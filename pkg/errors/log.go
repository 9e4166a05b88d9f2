package errors

import (
	"github.com/go-drift/animator/pkg/log"
)

var logger = log.New("errors")

// LogHandler is an ErrorHandler that writes reports to the shared logger.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs an AnimatorError.
func (h *LogHandler) HandleError(err *AnimatorError) {
	if err == nil {
		return
	}
	if h.Verbose && err.StackTrace != "" {
		logger.Warningf("%s\nStack trace:\n%s", err.Error(), err.StackTrace)
		return
	}
	logger.Warning(err.Error())
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if h.Verbose && err.StackTrace != "" {
		logger.Errorf("%s\nStack trace:\n%s", err.Error(), err.StackTrace)
		return
	}
	logger.Error(err.Error())
}
