// internal/reveal/row.go
//
// Reveal sequencer for one guess row.
//
// A row moves NOT_STARTED → RUNNING → ENDED. Binding a guess enters RUNNING
// synchronously and arms exactly one timer for 6 × unit; when it fires the row
// ends. Rebinding or closing cancels that timer first, and every armed
// callback carries the generation it was armed in, so a callback that slipped
// past Stop finds a newer generation and does nothing.

package reveal

import (
	"sync"
	"time"

	"github.com/maxbax0808/Bergle/internal/game"
	"github.com/maxbax0808/Bergle/internal/geo"
	"github.com/maxbax0808/Bergle/internal/i18n"
	"github.com/maxbax0808/Bergle/internal/settings"
)

// State is the animation state of a row.
type State string

const (
	NotStarted State = "NOT_STARTED"
	Running    State = "RUNNING"
	Ended      State = "ENDED"
)

// DefaultUnit is the base animation quantum.
const DefaultUnit = 250 * time.Millisecond

const (
	counterUnits = 5 // proximity counter runs for 5 units
	endUnits     = 6 // row ends 6 units after entering RUNNING
)

// RunningFor is how long a row bound at unit stays RUNNING.
func RunningFor(unit time.Duration) time.Duration { return endUnits * unit }

// Row is the per-row state machine. The zero value is not usable; see NewRow.
type Row struct {
	mu       sync.Mutex
	sched    Scheduler
	unit     time.Duration
	prox     geo.Proximity
	onChange func(State, *game.Guess)

	state  State
	guess  *game.Guess
	timer  Timer
	gen    uint64
	closed bool
}

// Option configures a Row.
type Option func(*Row)

// WithUnit overrides DefaultUnit.
func WithUnit(d time.Duration) Option {
	return func(r *Row) {
		if d > 0 {
			r.unit = d
		}
	}
}

// WithProximity sets the proximity scale used for cells and counters.
func WithProximity(p geo.Proximity) Option {
	return func(r *Row) { r.prox = p }
}

// WithOnChange registers an observer called on every state change, in order.
// It runs while the row is locked and must not call back into the Row.
func WithOnChange(fn func(State, *game.Guess)) Option {
	return func(r *Row) { r.onChange = fn }
}

// NewRow returns an unbound row in NOT_STARTED.
func NewRow(s Scheduler, opts ...Option) *Row {
	if s == nil {
		s = WallClock
	}
	r := &Row{sched: s, unit: DefaultUnit, state: NotStarted}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Unit returns the animation quantum of the row.
func (r *Row) Unit() time.Duration { return r.unit }

// State returns the current state.
func (r *Row) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Guess returns the bound guess, if any.
func (r *Row) Guess() *game.Guess {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guess
}

// Bind attaches g to the row. A different guess (or nil) cancels any pending
// timer and resets the row; a non-nil guess then starts RUNNING immediately.
// Binding the guess that is already bound is a no-op.
func (r *Row) Bind(g *game.Guess) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || g == r.guess {
		return
	}
	r.cancelLocked()
	r.guess = g
	r.setLocked(NotStarted)
	if g == nil {
		return
	}

	gen := r.gen
	r.setLocked(Running)
	r.timer = r.sched.AfterFunc(RunningFor(r.unit), func() { r.end(gen) })
}

// Close cancels any pending timer and detaches the row for good.
func (r *Row) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.cancelLocked()
	r.closed = true
}

func (r *Row) end(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.gen || r.state != Running {
		return
	}
	r.timer = nil
	r.setLocked(Ended)
}

// cancelLocked stops the pending timer and invalidates callbacks already in flight.
func (r *Row) cancelLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

func (r *Row) setLocked(s State) {
	if r.state == s {
		return
	}
	r.state = s
	if r.onChange != nil {
		r.onChange(s, r.guess)
	}
}

// View renders the row for its current state.
func (r *Row) View(s settings.Settings, t i18n.Translator) View {
	r.mu.Lock()
	state, g := r.state, r.guess
	r.mu.Unlock()
	return Render(state, g, r.unit, r.prox, s, t)
}
