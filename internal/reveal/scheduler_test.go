package reveal

import (
	"sort"
	"sync"
	"time"
)

// manualScheduler fires callbacks only when Advance moves its clock past them.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer

	// leaky timers report a successful Stop but still fire, to prove the
	// generation guard works on its own.
	leaky bool
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{s: m, at: m.now + d, f: f}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	if !t.s.leaky {
		t.stopped = true
	}
	return true
}

func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired && t.at <= m.now {
			t.fired = true
			due = append(due, t)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func (m *manualScheduler) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
