package animator

import (
	"sync/atomic"
)

// Registry is the ordered set of drawables an animator renders.
//
// All mutation and every render pass happen under one RecursiveLock, so a
// drawable's Display may add or remove drawables on the goroutine running the
// pass. Mutations replace the backing slice instead of editing it, which keeps
// the slice returned by Acquire stable for the rest of the pass.
type Registry struct {
	lock      RecursiveLock
	drawables []Drawable
	size      atomic.Int32

	owner    Control
	onChange func()
}

// NewRegistry creates an empty registry. Added drawables are registered with
// owner; onChange, if set, runs after every successful mutation once the lock
// has been released.
func NewRegistry(owner Control, onChange func()) *Registry {
	return &Registry{
		owner:    owner,
		onChange: onChange,
	}
}

// Add appends d and marks it as owned by the registry's owner. It fails with
// ErrOwnershipConflict when d already belongs to another animator; in that
// case the registry is unchanged.
func (r *Registry) Add(d Drawable) error {
	if d == nil {
		return ErrNilDrawable
	}

	if err := r.add(d); err != nil {
		return ownershipError(r.ownerName(), err)
	}
	r.changed()
	return nil
}

func (r *Registry) add(d Drawable) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := d.SetAnimator(r.owner); err != nil {
		return err
	}
	next := make([]Drawable, len(r.drawables), len(r.drawables)+1)
	copy(next, r.drawables)
	r.drawables = append(next, d)
	r.size.Store(int32(len(r.drawables)))
	return nil
}

// Remove drops the first occurrence of d and clears its owner. Removing a
// drawable that is not registered does nothing.
func (r *Registry) Remove(d Drawable) {
	if d == nil {
		return
	}

	if r.remove(d) {
		r.changed()
	}
}

func (r *Registry) remove(d Drawable) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	idx := r.indexLocked(d)
	if idx < 0 {
		return false
	}
	next := make([]Drawable, 0, len(r.drawables)-1)
	next = append(next, r.drawables[:idx]...)
	r.drawables = append(next, r.drawables[idx+1:]...)
	r.size.Store(int32(len(r.drawables)))
	if r.indexLocked(d) < 0 {
		_ = d.SetAnimator(nil)
	}
	return true
}

// Acquire locks the registry and returns the current drawables. The slice
// must not be modified and is only valid until the matching Release.
func (r *Registry) Acquire() []Drawable {
	r.lock.Lock()
	return r.drawables
}

// Release ends an Acquire.
func (r *Registry) Release() {
	r.lock.Unlock()
}

// Snapshot returns a copy of the current drawables.
func (r *Registry) Snapshot() []Drawable {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]Drawable, len(r.drawables))
	copy(out, r.drawables)
	return out
}

// Contains reports whether d is registered.
func (r *Registry) Contains(d Drawable) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.indexLocked(d) >= 0
}

// Len returns the number of registered drawables without taking the lock.
func (r *Registry) Len() int {
	return int(r.size.Load())
}

func (r *Registry) indexLocked(d Drawable) int {
	for i, cur := range r.drawables {
		if cur == d {
			return i
		}
	}
	return -1
}

func (r *Registry) ownerName() string {
	if r.owner == nil {
		return ""
	}
	return r.owner.Name()
}

func (r *Registry) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}
