package reveal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/maxbax0808/Bergle/internal/game"
	"github.com/maxbax0808/Bergle/internal/geo"
	"github.com/maxbax0808/Bergle/internal/i18n"
	"github.com/maxbax0808/Bergle/internal/settings"
)

// Cell is one glyph of the running animation, shown after Delay.
type Cell struct {
	Glyph   string        `json:"glyph"`
	Delay   time.Duration `json:"-"`
	DelayMs int64         `json:"delayMs"`
}

// Counter animates the proximity percentage from 0 to To over Duration.
type Counter struct {
	To         int           `json:"to"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"durationMs"`
}

// At returns the counter value after elapsed, using an ease-out-expo curve.
func (c Counter) At(elapsed time.Duration) int {
	if elapsed <= 0 || c.To <= 0 {
		return 0
	}
	if elapsed >= c.Duration {
		return c.To
	}
	t := float64(elapsed) / float64(c.Duration)
	v := int(math.Round(float64(c.To) * (1 - math.Pow(2, -10*t)) * 1024 / 1023))
	if v > c.To {
		return c.To
	}
	return v
}

// BydelHint is the optional district-correctness indicator.
type BydelHint struct {
	Correct bool   `json:"correct"`
	Title   string `json:"title"`
}

// View is what a row shows in a given state.
type View struct {
	State    State      `json:"state"`
	Cells    []Cell     `json:"cells,omitempty"`    // RUNNING
	Counter  *Counter   `json:"counter,omitempty"`  // RUNNING
	Name     string     `json:"name,omitempty"`     // ENDED
	Distance string     `json:"distance,omitempty"` // ENDED
	Arrow    string     `json:"arrow,omitempty"`    // ENDED
	Percent  string     `json:"percent,omitempty"`  // ENDED
	Bydel    *BydelHint `json:"bydel,omitempty"`    // ENDED, helper mode only
}

// Render builds the view of a row in state for guess g. NOT_STARTED (or a nil
// guess) renders as an empty placeholder.
func Render(state State, g *game.Guess, unit time.Duration, prox geo.Proximity, s settings.Settings, t i18n.Translator) View {
	if g == nil || state == NotStarted {
		return View{State: NotStarted}
	}
	if t == nil {
		t = i18n.Identity
	}
	pct := prox.Percent(g.Distance)

	if state == Running {
		glyphs := geo.SquareCells(pct, s.Theme, g.Direction)
		cells := make([]Cell, len(glyphs))
		for i, gl := range glyphs {
			d := time.Duration(i) * unit
			cells[i] = Cell{Glyph: gl, Delay: d, DelayMs: d.Milliseconds()}
		}
		d := counterUnits * unit
		return View{
			State:   Running,
			Cells:   cells,
			Counter: &Counter{To: pct, Duration: d, DurationMs: d.Milliseconds()},
		}
	}

	v := View{
		State:    Ended,
		Name:     strings.ToUpper(g.Name),
		Distance: geo.FormatDistance(g.Distance, s.DistanceUnit),
		Arrow:    geo.Arrow(g.Direction),
		Percent:  fmt.Sprintf("%d%%", pct),
	}
	if g.Distance == 0 {
		v.Arrow = geo.Celebration
	}
	if s.BydelHelperMode {
		key := "bydelIncorrect"
		if g.BydelIsCorrect {
			key = "bydelCorrect"
		}
		v.Bydel = &BydelHint{Correct: g.BydelIsCorrect, Title: t(key)}
	}
	return v
}
