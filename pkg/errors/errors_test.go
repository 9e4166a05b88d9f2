package errors

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = stderrors.New("boom")

func TestAnimatorErrorString(t *testing.T) {
	err := &AnimatorError{
		Op:   "animator.Start",
		Kind: KindStart,
		Err:  errTest,
	}
	assert.Equal(t, "animator.Start [start]: boom", err.Error())
}

func TestAnimatorErrorWithAnimator(t *testing.T) {
	err := &AnimatorError{
		Op:       "animator.Add",
		Kind:     KindOwnership,
		Animator: "Animator-3",
		Err:      errTest,
	}
	assert.Contains(t, err.Error(), "animator=Animator-3")
	assert.True(t, stderrors.Is(err, errTest))
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindOwnership, "ownership"},
		{KindState, "state"},
		{KindStart, "start"},
		{KindRender, "render"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	assert.Equal(t, "panic: test panic", err.Error())

	err.Op = "uithread.InvokeAndWait"
	assert.Equal(t, "panic in uithread.InvokeAndWait: test panic", err.Error())
}

func TestPanicErrorUnwrap(t *testing.T) {
	assert.True(t, stderrors.Is(&PanicError{Value: errTest}, errTest))
	assert.Nil(t, (&PanicError{Value: 12}).Unwrap())
}

func TestReport(t *testing.T) {
	var captured *AnimatorError
	handler := &testHandler{
		onError: func(err *AnimatorError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&AnimatorError{Op: "test.op", Kind: KindRender, Err: errTest})

	require.NotNil(t, captured)
	assert.Equal(t, "test.op", captured.Op)
	assert.False(t, captured.Timestamp.IsZero(), "expected Timestamp to be set")

	Report(nil)
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	require.NotNil(t, captured, "expected panic to be recovered and captured")
	assert.Equal(t, "intentional test panic", captured.Value)
	assert.Equal(t, "test.recover", captured.Op)
	assert.NotEmpty(t, captured.StackTrace)
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	require.NotEmpty(t, stack)
	assert.Contains(t, stack, "testing")
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	_, ok := DefaultHandler.(*LogHandler)
	assert.True(t, ok, "SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
}

func TestLogHandlerNilSafe(t *testing.T) {
	h := &LogHandler{Verbose: true}
	h.HandleError(nil)
	h.HandlePanic(nil)
}

type testHandler struct {
	onError func(*AnimatorError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *AnimatorError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
