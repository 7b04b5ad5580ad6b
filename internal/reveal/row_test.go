package reveal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxbax0808/Bergle/internal/game"
	"github.com/maxbax0808/Bergle/internal/geo"
	"github.com/maxbax0808/Bergle/internal/i18n"
	"github.com/maxbax0808/Bergle/internal/settings"
)

const unit = 100 * time.Millisecond

func guessAt(name string, distance float64, dir geo.Direction) *game.Guess {
	return &game.Guess{Name: name, Distance: distance, Direction: dir, Order: 1}
}

func TestRow_BindRunsThenEnds(t *testing.T) {
	s := &manualScheduler{}
	r := NewRow(s, WithUnit(unit))
	assert.Equal(t, NotStarted, r.State())

	r.Bind(guessAt("Sagene", 4000, geo.DirNE))
	assert.Equal(t, Running, r.State(), "bind must enter RUNNING synchronously")
	assert.Equal(t, 1, s.pending())

	s.Advance(6*unit - time.Millisecond)
	assert.Equal(t, Running, r.State())

	s.Advance(time.Millisecond)
	assert.Equal(t, Ended, r.State())
	assert.Equal(t, 0, s.pending())
}

func TestRow_RebindCancelsStaleTimer(t *testing.T) {
	s := &manualScheduler{}
	r := NewRow(s, WithUnit(unit))

	first := guessAt("Sagene", 4000, geo.DirNE)
	second := guessAt("Tøyen", 1000, geo.DirS)

	r.Bind(first)
	s.Advance(5 * unit)
	r.Bind(second)
	assert.Equal(t, Running, r.State())
	assert.Same(t, second, r.Guess())
	assert.Equal(t, 1, s.pending(), "only one timer may be active per row")

	// the first timer's deadline passes without effect
	s.Advance(unit)
	assert.Equal(t, Running, r.State())

	s.Advance(5 * unit)
	assert.Equal(t, Ended, r.State())
}

func TestRow_StaleCallbackIgnoredEvenIfStopLoses(t *testing.T) {
	s := &manualScheduler{leaky: true}
	var seen []State
	r := NewRow(s, WithUnit(unit), WithOnChange(func(st State, _ *game.Guess) { seen = append(seen, st) }))

	r.Bind(guessAt("Sagene", 4000, geo.DirNE))
	s.Advance(3 * unit)
	r.Bind(guessAt("Tøyen", 1000, geo.DirS))

	// the leaked first timer fires at 6u; the row must stay RUNNING
	s.Advance(3 * unit)
	assert.Equal(t, Running, r.State())

	s.Advance(3 * unit)
	assert.Equal(t, Ended, r.State())
	assert.Equal(t, []State{Running, NotStarted, Running, Ended}, seen)
}

func TestRow_BindSameGuessIsNoop(t *testing.T) {
	s := &manualScheduler{}
	r := NewRow(s, WithUnit(unit))
	g := guessAt("Sagene", 4000, geo.DirNE)

	r.Bind(g)
	s.Advance(4 * unit)
	r.Bind(g)
	s.Advance(2 * unit)
	assert.Equal(t, Ended, r.State())
}

func TestRow_BindNilResets(t *testing.T) {
	s := &manualScheduler{}
	r := NewRow(s, WithUnit(unit))
	r.Bind(guessAt("Sagene", 4000, geo.DirNE))
	r.Bind(nil)
	assert.Equal(t, NotStarted, r.State())
	assert.Equal(t, 0, s.pending())

	s.Advance(10 * unit)
	assert.Equal(t, NotStarted, r.State())
}

func TestRow_CloseCancels(t *testing.T) {
	s := &manualScheduler{leaky: true}
	r := NewRow(s, WithUnit(unit))
	r.Bind(guessAt("Sagene", 4000, geo.DirNE))
	r.Close()

	s.Advance(10 * unit)
	assert.Equal(t, Running, r.State(), "no mutation after close")

	r.Bind(guessAt("Tøyen", 1000, geo.DirS))
	assert.Equal(t, Running, r.State())
	assert.Equal(t, "Sagene", r.Guess().Name)
}

func TestRow_WallClock(t *testing.T) {
	var mu sync.Mutex
	done := make(chan struct{})
	r := NewRow(WallClock, WithUnit(time.Millisecond), WithOnChange(func(st State, _ *game.Guess) {
		mu.Lock()
		defer mu.Unlock()
		if st == Ended {
			close(done)
		}
	}))
	r.Bind(guessAt("Sagene", 4000, geo.DirNE))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("row never ended")
	}
	assert.Equal(t, Ended, r.State())
}

func TestRender_States(t *testing.T) {
	s := &manualScheduler{}
	r := NewRow(s, WithUnit(unit))
	set := settings.Default()
	tr := i18n.New("nb")

	assert.Equal(t, View{State: NotStarted}, r.View(set, tr))

	r.Bind(guessAt("Grønland", 10_000, geo.DirE))
	v := r.View(set, tr)
	require.Equal(t, Running, v.State)
	require.Len(t, v.Cells, geo.SquareCount)
	for i, c := range v.Cells {
		assert.Equal(t, time.Duration(i)*unit, c.Delay)
	}
	assert.Equal(t, []string{"🟩", "🟩", "🟨", "⬜", "⬜"}, glyphs(v.Cells))
	require.NotNil(t, v.Counter)
	assert.Equal(t, 50, v.Counter.To)
	assert.Equal(t, 5*unit, v.Counter.Duration)

	s.Advance(6 * unit)
	v = r.View(set, tr)
	assert.Equal(t, Ended, v.State)
	assert.Equal(t, "GRØNLAND", v.Name)
	assert.Equal(t, "10.0 km", v.Distance)
	assert.Equal(t, "➡️", v.Arrow)
	assert.Equal(t, "50%", v.Percent)
	assert.Nil(t, v.Bydel)
}

func TestRender_ExactGuessCelebrates(t *testing.T) {
	g := guessAt("Sagene", 0, geo.DirError)
	v := Render(Ended, g, unit, geo.Proximity{}, settings.Default(), nil)
	assert.Equal(t, geo.Celebration, v.Arrow)
	assert.Equal(t, "100%", v.Percent)
}

func TestRender_BydelHelper(t *testing.T) {
	set := settings.Default()
	set.BydelHelperMode = true
	set.DistanceUnit = geo.UnitImperial

	g := guessAt("Tøyen", 1609.344, geo.DirS)
	g.BydelIsCorrect = true
	v := Render(Ended, g, unit, geo.Proximity{}, set, i18n.New("nb"))
	require.NotNil(t, v.Bydel)
	assert.True(t, v.Bydel.Correct)
	assert.Equal(t, "Bydelen er korrekt", v.Bydel.Title)
	assert.Equal(t, "1.0 mi", v.Distance)

	g.BydelIsCorrect = false
	v = Render(Ended, g, unit, geo.Proximity{}, set, i18n.New("nb"))
	assert.Equal(t, "Bydelen er ikke korrekt", v.Bydel.Title)
}

func TestCounter_At(t *testing.T) {
	c := Counter{To: 80, Duration: 5 * unit}
	assert.Equal(t, 0, c.At(0))
	assert.Equal(t, 80, c.At(5*unit))
	assert.Equal(t, 80, c.At(time.Hour))

	prev := 0
	for e := time.Duration(0); e <= 5*unit; e += 10 * time.Millisecond {
		v := c.At(e)
		assert.GreaterOrEqual(t, v, prev)
		assert.LessOrEqual(t, v, 80)
		prev = v
	}
}

func glyphs(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Glyph
	}
	return out
}
