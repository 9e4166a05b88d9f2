package animator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/animator/pkg/animator"
)

func TestRecursiveLock_ReacquireOnSameGoroutine(t *testing.T) {
	var l animator.RecursiveLock

	l.Lock()
	l.Lock()
	assert.True(t, l.HeldByCurrent())
	assert.Equal(t, 2, l.HoldCount())

	l.Unlock()
	assert.True(t, l.HeldByCurrent())
	l.Unlock()
	assert.False(t, l.HeldByCurrent())
	assert.Equal(t, 0, l.HoldCount())
}

func TestRecursiveLock_BlocksOtherGoroutines(t *testing.T) {
	var l animator.RecursiveLock
	l.Lock()
	l.Lock()

	acquired := make(chan struct{})
	go func() {
		l.Lock()
		close(acquired)
		l.Unlock()
	}()

	l.Unlock()
	select {
	case <-acquired:
		t.Fatal("lock acquired while still held once")
	case <-time.After(20 * time.Millisecond):
	}

	l.Unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock not handed over after final unlock")
	}
}

func TestRecursiveLock_UnlockByOtherGoroutinePanics(t *testing.T) {
	var l animator.RecursiveLock
	l.Lock()
	defer l.Unlock()

	panicked := make(chan any, 1)
	go func() {
		defer func() { panicked <- recover() }()
		l.Unlock()
	}()
	require.NotNil(t, <-panicked)
}
