package animator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/animator/pkg/animator"
	aerrors "github.com/go-drift/animator/pkg/errors"
	animtest "github.com/go-drift/animator/pkg/testing"
)

func TestRegistry_AddKeepsOrderAndDuplicates(t *testing.T) {
	a := newAnimator(t)
	d1 := animtest.NewDrawable("d1", nil)
	d2 := animtest.NewDrawable("d2", nil)

	require.NoError(t, a.Add(d1))
	require.NoError(t, a.Add(d2))
	require.NoError(t, a.Add(d1))

	assert.Equal(t, []animator.Drawable{d1, d2, d1}, a.Drawables())
	assert.Same(t, a, d1.Animator())
}

func TestRegistry_RemoveFirstMatch(t *testing.T) {
	a := newAnimator(t)
	d1 := animtest.NewDrawable("d1", nil)
	d2 := animtest.NewDrawable("d2", nil)
	require.NoError(t, a.Add(d1))
	require.NoError(t, a.Add(d2))
	require.NoError(t, a.Add(d1))

	a.Remove(d1)
	assert.Equal(t, []animator.Drawable{d2, d1}, a.Drawables())
	assert.NotNil(t, d1.Animator(), "still registered once")

	a.Remove(d1)
	assert.Nil(t, d1.Animator())

	// Absent drawables are ignored.
	a.Remove(d1)
	assert.Equal(t, []animator.Drawable{d2}, a.Drawables())
}

func TestRegistry_OwnershipConflict(t *testing.T) {
	a1 := newAnimator(t)
	a2 := newAnimator(t)
	d := animtest.NewDrawable("d", nil)

	require.NoError(t, a1.Add(d))
	err := a2.Add(d)
	require.ErrorIs(t, err, animator.ErrOwnershipConflict)

	var ae *aerrors.AnimatorError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, aerrors.KindOwnership, ae.Kind)
	assert.Equal(t, a2.Name(), ae.Animator)
	assert.Empty(t, a2.Drawables())
	assert.Same(t, a1, d.Animator())

	a1.Remove(d)
	require.NoError(t, a2.Add(d))
	assert.Same(t, a2, d.Animator())
}

func TestRegistry_NilDrawable(t *testing.T) {
	a := newAnimator(t)
	require.ErrorIs(t, a.Add(nil), animator.ErrNilDrawable)
	a.Remove(nil)
	assert.Empty(t, a.Drawables())
}

func TestRegistry_AcquireIsReentrant(t *testing.T) {
	r := animator.NewRegistry(nil, nil)
	d := animtest.NewDrawable("d", nil)

	got := r.Acquire()
	assert.Empty(t, got)
	require.NoError(t, r.Add(d))
	assert.True(t, r.Contains(d))
	assert.Empty(t, got, "acquired slice is not modified in place")
	r.Release()

	assert.Equal(t, 1, r.Len())
}

type panickyDrawable struct{ animtest.Drawable }

func (*panickyDrawable) SetAnimator(animator.Control) error { panic("bad owner hook") }

func TestRegistry_PanickingOwnerHookReleasesLock(t *testing.T) {
	r := animator.NewRegistry(nil, nil)

	assert.Panics(t, func() { _ = r.Add(&panickyDrawable{}) })
	assert.Zero(t, r.Len())

	// Another goroutine must still get the lock.
	done := make(chan error, 1)
	go func() { done <- r.Add(animtest.NewDrawable("d", nil)) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("registry lock left held")
	}
	assert.Equal(t, 1, r.Len())
}
