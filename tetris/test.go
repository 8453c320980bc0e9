package tetris

import (
	"sync"
	"time"
)

// TestClock is a Clock that only moves when Sleep or Advance is called.
type TestClock struct {
	now    time.Time
	sleeps int
	mu     sync.Mutex
}

func NewTestClock() *TestClock {
	return &TestClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *TestClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps++
}

func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleeps returns how many times Sleep was called.
func (c *TestClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}

// FixedRand returns its values in order, cycling when it runs out.
type FixedRand struct {
	values []int
	i      int
}

func NewFixedRand(values ...int) *FixedRand { return &FixedRand{values: values} }

func (r *FixedRand) IntN(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

// NewTestTetris creates a session with a tetromino of the given kind already falling at its
// spawn point. Further spawns keep drawing the same kind.
func NewTestTetris(k Kind) *Tetris {
	t := New(NewFixedRand(int(k)), nil)
	t.Tetromino = newTetromino(k)
	t.phase = Falling
	return t
}
