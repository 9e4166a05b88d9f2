package animator

import (
	"sync"

	"github.com/petermattis/goid"
)

// RecursiveLock is a mutual exclusion lock that the holding goroutine may
// acquire again without blocking. Each Lock must be paired with an Unlock on
// the same goroutine. The zero value is an unlocked lock.
type RecursiveLock struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64
	count int
}

// Lock acquires the lock, blocking while another goroutine holds it.
func (l *RecursiveLock) Lock() {
	id := goid.Get()

	l.mu.Lock()
	if l.cond == nil {
		l.cond = sync.NewCond(&l.mu)
	}
	for l.count > 0 && l.owner != id {
		l.cond.Wait()
	}
	l.owner = id
	l.count++
	l.mu.Unlock()
}

// Unlock releases one hold on the lock. It panics when the calling goroutine
// is not the holder.
func (l *RecursiveLock) Unlock() {
	id := goid.Get()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count == 0 || l.owner != id {
		panic("animator: unlock of RecursiveLock not held by this goroutine")
	}
	l.count--
	if l.count == 0 {
		l.owner = 0
		l.cond.Signal()
	}
}

// HeldByCurrent reports whether the calling goroutine holds the lock.
func (l *RecursiveLock) HeldByCurrent() bool {
	id := goid.Get()

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0 && l.owner == id
}

// HoldCount returns the number of holds the calling goroutine has on the lock.
func (l *RecursiveLock) HoldCount() int {
	id := goid.Get()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != id {
		return 0
	}
	return l.count
}
