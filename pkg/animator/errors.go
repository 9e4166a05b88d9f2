package animator

import (
	"errors"
	"fmt"

	aerrors "github.com/go-drift/animator/pkg/errors"
)

var (
	ErrOwnershipConflict = errors.New("animator: drawable already owned by another animator")
	ErrAlreadyStarted    = errors.New("animator: already started")
	ErrNotStarted        = errors.New("animator: not started")
	ErrStartFailure      = errors.New("animator: render goroutine failed to start")
	ErrDrawableRender    = errors.New("animator: drawable render failure")
	ErrNilDrawable       = errors.New("animator: nil drawable")
)

func stateError(op, name string, err error) error {
	return &aerrors.AnimatorError{
		Op:       op,
		Kind:     aerrors.KindState,
		Animator: name,
		Err:      err,
	}
}

func ownershipError(name string, cause error) error {
	if !errors.Is(cause, ErrOwnershipConflict) {
		cause = fmt.Errorf("%w: %w", ErrOwnershipConflict, cause)
	}
	return &aerrors.AnimatorError{
		Op:       "animator.Add",
		Kind:     aerrors.KindOwnership,
		Animator: name,
		Err:      cause,
	}
}

func startError(name string, cause error) error {
	return &aerrors.AnimatorError{
		Op:       "animator.Start",
		Kind:     aerrors.KindStart,
		Animator: name,
		Err:      fmt.Errorf("%w: %w", ErrStartFailure, cause),
	}
}

func renderError(name string, d Drawable, cause error) *aerrors.AnimatorError {
	failure := &aerrors.AnimatorError{
		Op:       "animator.Display",
		Kind:     aerrors.KindRender,
		Animator: name,
		Err:      fmt.Errorf("%w: %s: %w", ErrDrawableRender, drawableName(d), cause),
	}
	var pe *aerrors.PanicError
	if errors.As(cause, &pe) {
		failure.Kind = aerrors.KindPanic
		failure.StackTrace = pe.StackTrace
	}
	return failure
}

func passError(name string, cause error) *aerrors.AnimatorError {
	failure := &aerrors.AnimatorError{
		Op:       "animator.Pass",
		Kind:     aerrors.KindRender,
		Animator: name,
		Err:      cause,
	}
	var pe *aerrors.PanicError
	if errors.As(cause, &pe) {
		failure.Kind = aerrors.KindPanic
		failure.StackTrace = pe.StackTrace
	}
	return failure
}
