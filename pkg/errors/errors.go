// Package errors provides structured error reporting for animators and the
// host UI loop.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindOwnership indicates a drawable already owned by another animator.
	KindOwnership
	// KindState indicates a lifecycle call that is invalid in the current state.
	KindState
	// KindStart indicates the render goroutine failed to initialize.
	KindStart
	// KindRender indicates a drawable failed while displaying a frame.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindOwnership:
		return "ownership"
	case KindState:
		return "state"
	case KindStart:
		return "start"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// AnimatorError represents a structured animator failure.
type AnimatorError struct {
	// Op is the operation that failed (e.g., "animator.Start").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Animator is the name of the animator involved, if any.
	Animator string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AnimatorError) Error() string {
	if e.Animator != "" {
		return fmt.Sprintf("%s [%s] animator=%s: %v", e.Op, e.Kind, e.Animator, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *AnimatorError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "uithread.InvokeAndWait").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler receives errors reported by animators.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *AnimatorError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
