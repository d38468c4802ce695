package scene

import "time"

// Scheduler defers a single callback. The scene uses it for the
// drag-settle save; injecting it keeps tests free of real timers.
type Scheduler interface {
	// Schedule runs fn after d. The returned cancel function stops the
	// callback if it has not fired yet.
	Schedule(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

// NewTimerScheduler returns the production scheduler backed by
// time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler collects callbacks and fires them on demand. Test
// helper.
type ManualScheduler struct {
	pending []*manualEntry
}

type manualEntry struct {
	fn func()
}

func (m *ManualScheduler) Schedule(_ time.Duration, fn func()) func() {
	e := &manualEntry{fn: fn}
	m.pending = append(m.pending, e)
	return func() { e.fn = nil }
}

// Fire runs and clears all pending callbacks. Cancelling an entry that
// already fired stays a no-op.
func (m *ManualScheduler) Fire() {
	pending := m.pending
	m.pending = nil
	for _, e := range pending {
		if e.fn != nil {
			e.fn()
		}
	}
}

// Pending returns the number of live callbacks.
func (m *ManualScheduler) Pending() int {
	n := 0
	for _, e := range m.pending {
		if e.fn != nil {
			n++
		}
	}
	return n
}
