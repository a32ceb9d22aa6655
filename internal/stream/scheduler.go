package stream

import (
	"sync"
	"time"
)

// Scheduler abstracts delayed execution so the fixture server's scripted
// responses can be stepped deterministically in tests instead of waiting
// on wall-clock timers.
type Scheduler interface {
	// After arranges for fn to run after d and returns a cancel function.
	After(d time.Duration, fn func()) (cancel func())
}

type wallClock struct{}

// WallClock returns the real-time scheduler backed by time.AfterFunc.
func WallClock() Scheduler {
	return wallClock{}
}

func (wallClock) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Manual is a scheduler whose callbacks only run when the test steps them.
// Delays are recorded but never waited on.
type Manual struct {
	mu    sync.Mutex
	queue []*manualTask
}

type manualTask struct {
	fn        func()
	cancelled bool
}

// NewManual returns an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// After queues fn and returns a cancel that removes it if it has not run.
func (m *Manual) After(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	task := &manualTask{fn: fn}
	m.queue = append(m.queue, task)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		task.cancelled = true
	}
}

// Step runs the next pending callback and reports whether one ran.
func (m *Manual) Step() bool {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return false
		}
		task := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		if task.cancelled {
			continue
		}
		task.fn()
		return true
	}
}

// RunAll steps until the queue is drained, including callbacks queued by
// callbacks.
func (m *Manual) RunAll() {
	for m.Step() {
	}
}

// Pending reports how many callbacks are queued, cancelled ones included.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
