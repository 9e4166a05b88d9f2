package uithread

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/petermattis/goid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aerrors "github.com/go-drift/animator/pkg/errors"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New("test")
	require.NoError(t, l.Start())
	t.Cleanup(l.Stop)
	return l
}

func TestLoop_InvokeAndWaitRunsOnLoopGoroutine(t *testing.T) {
	l := startLoop(t)
	require.True(t, l.Running())
	require.False(t, l.IsLoopGoroutine())

	var id int64
	var onLoop bool
	require.NoError(t, l.InvokeAndWait(context.Background(), func() {
		id = goid.Get()
		onLoop = l.IsLoopGoroutine()
	}))
	assert.True(t, onLoop)
	assert.NotEqual(t, goid.Get(), id)
}

func TestLoop_PreservesOrder(t *testing.T) {
	l := startLoop(t)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 20; i++ {
		i := i
		require.NoError(t, l.InvokeLater(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	require.NoError(t, l.InvokeAndWait(context.Background(), func() {}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 20)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_NestedInvokeRunsInline(t *testing.T) {
	l := startLoop(t)

	ran := false
	require.NoError(t, l.InvokeAndWait(context.Background(), func() {
		require.NoError(t, l.InvokeAndWait(context.Background(), func() { ran = true }))
	}))
	assert.True(t, ran)
}

func TestLoop_PanicIsReturned(t *testing.T) {
	l := startLoop(t)

	err := l.InvokeAndWait(context.Background(), func() { panic("bad") })
	var pe *aerrors.PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad", pe.Value)

	// The loop survives.
	require.NoError(t, l.InvokeAndWait(context.Background(), func() {}))
}

func TestLoop_CancelWhileQueued(t *testing.T) {
	l := startLoop(t)

	block := make(chan struct{})
	require.NoError(t, l.InvokeLater(func() { <-block }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := make(chan struct{}, 1)
	err := l.InvokeAndWait(ctx, func() { ran <- struct{}{} })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
	require.NoError(t, l.InvokeAndWait(context.Background(), func() {}))
	select {
	case <-ran:
		t.Fatal("cancelled invocation ran")
	default:
	}
}

func TestLoop_PumpUntilKeepsWorkFlowing(t *testing.T) {
	l := startLoop(t)

	done := make(chan struct{})
	var helperErr error
	require.NoError(t, l.InvokeAndWait(context.Background(), func() {
		go func() {
			// Needs the loop while the loop waits for it.
			helperErr = l.InvokeAndWait(context.Background(), func() {})
			close(done)
		}()
		l.PumpUntil(done)
	}))
	require.NoError(t, helperErr)
}

func TestLoop_StopFailsQueuedAndFutureWork(t *testing.T) {
	l := New("test")
	require.NoError(t, l.Start())

	block := make(chan struct{})
	require.NoError(t, l.InvokeLater(func() { <-block }))
	queued := make(chan error, 1)
	go func() { queued <- l.InvokeAndWait(context.Background(), func() {}) }()
	time.Sleep(10 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		l.Stop()
		close(stopped)
	}()
	close(block)
	<-stopped

	// The queued call either ran before the loop noticed the stop or failed.
	if err := <-queued; err != nil {
		require.ErrorIs(t, err, ErrLoopStopped)
	}
	assert.False(t, l.Running())
	require.ErrorIs(t, l.InvokeAndWait(context.Background(), func() {}), ErrLoopStopped)
	require.ErrorIs(t, l.InvokeLater(func() {}), ErrLoopStopped)
	require.ErrorIs(t, l.Start(), ErrLoopStopped)
}

func TestLoop_RunWithContext(t *testing.T) {
	l := New("test")
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	require.Eventually(t, l.Running, time.Second, time.Millisecond)
	require.ErrorIs(t, l.Start(), ErrAlreadyRunning)

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
	assert.False(t, l.Running())
}

func TestLoop_StopBeforeStart(t *testing.T) {
	l := New("test")
	l.Stop()
	assert.False(t, l.Running())
	require.ErrorIs(t, l.InvokeLater(func() {}), ErrLoopStopped)
}
