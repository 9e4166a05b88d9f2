package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, clk.Now().Sub(start))
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	assert.True(t, clk.Now().Equal(target))
}

func TestSteppingClock(t *testing.T) {
	clk := NewSteppingClock(5 * time.Millisecond)
	first := clk.Now()
	second := clk.Now()
	assert.Equal(t, 5*time.Millisecond, second.Sub(first))

	clk.SetStep(0)
	third := clk.Now()
	assert.Equal(t, third, clk.Now())
	assert.Equal(t, 5*time.Millisecond, third.Sub(second))
}

func TestFakeClock_ConcurrentSteps(t *testing.T) {
	clk := NewSteppingClock(time.Millisecond)
	start := clk.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clk.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 801*time.Millisecond, clk.Now().Sub(start))
}
