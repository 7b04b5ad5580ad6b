package geo

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	sentrum      = Coord{Lat: 59.9127, Lon: 10.7461}
	grunerlokka  = Coord{Lat: 59.9230, Lon: 10.7590}
	holmenkollen = Coord{Lat: 59.9630, Lon: 10.6670}
)

func TestDistanceAndDirection_SamePointIsZeroAndError(t *testing.T) {
	for _, c := range []Coord{sentrum, grunerlokka, {Lat: 0, Lon: 0}, {Lat: -89.9, Lon: 179.9}} {
		d, dir := DistanceAndDirection(c, c)
		assert.Equal(t, 0.0, d)
		assert.Equal(t, DirError, dir)
	}
}

func TestDistanceAndDirection_InvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		guess, target Coord
	}{
		{"nan guess", Coord{Lat: math.NaN(), Lon: 10}, sentrum},
		{"nan target", sentrum, Coord{Lat: 59, Lon: math.NaN()}},
		{"lat out of range", Coord{Lat: 91, Lon: 0}, sentrum},
		{"lon out of range", sentrum, Coord{Lat: 0, Lon: 181}},
		{"infinite", Coord{Lat: math.Inf(1), Lon: 0}, sentrum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, dir := DistanceAndDirection(tt.guess, tt.target)
			assert.Equal(t, Unavailable, d)
			assert.Equal(t, DirError, dir)
		})
	}
}

func TestDistanceAndDirection_Bearing(t *testing.T) {
	d, dir := DistanceAndDirection(sentrum, grunerlokka)
	assert.InDelta(t, 1380, d, 100)
	assert.Equal(t, DirNE, dir)

	d, dir = DistanceAndDirection(grunerlokka, sentrum)
	assert.InDelta(t, 1380, d, 100)
	assert.Equal(t, DirSW, dir)

	_, dir = DistanceAndDirection(sentrum, holmenkollen)
	assert.Equal(t, DirNW, dir)

	_, dir = DistanceAndDirection(Coord{Lat: 59, Lon: 10}, Coord{Lat: 60, Lon: 10})
	assert.Equal(t, DirN, dir)
	_, dir = DistanceAndDirection(Coord{Lat: 60, Lon: 10}, Coord{Lat: 59, Lon: 10})
	assert.Equal(t, DirS, dir)
	_, dir = DistanceAndDirection(Coord{Lat: 0, Lon: 10}, Coord{Lat: 0, Lon: 11})
	assert.Equal(t, DirE, dir)
	_, dir = DistanceAndDirection(Coord{Lat: 0, Lon: 11}, Coord{Lat: 0, Lon: 10})
	assert.Equal(t, DirW, dir)
}

func TestBearingSector_Boundaries(t *testing.T) {
	tests := []struct {
		bearing float64
		want    Direction
	}{
		{0, DirN}, {22.4, DirN}, {22.5, DirNE}, {67.5, DirE}, {112.5, DirSE},
		{180, DirS}, {-180, DirS}, {225, DirSW}, {-90, DirW}, {300, DirNW},
		{337.5, DirN}, {359.9, DirN}, {720, DirN}, {math.NaN(), DirError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bearingSector(tt.bearing), "bearing %v", tt.bearing)
	}
}

func TestProximityPercent(t *testing.T) {
	assert.Equal(t, 100, ProximityPercent(0))
	assert.Equal(t, 0, ProximityPercent(DefaultMaxDistance))
	assert.Equal(t, 0, ProximityPercent(DefaultMaxDistance*3))
	assert.Equal(t, 50, ProximityPercent(DefaultMaxDistance/2))
	assert.Equal(t, 0, ProximityPercent(Unavailable))
	assert.Equal(t, 0, ProximityPercent(math.NaN()))
	assert.Equal(t, 0, ProximityPercent(math.Inf(1)))

	prev := 100
	for d := 0.0; d <= DefaultMaxDistance*1.5; d += 137 {
		p := ProximityPercent(d)
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
		assert.LessOrEqual(t, p, prev, "distance %v", d)
		prev = p
	}
}

func TestProximity_CustomMax(t *testing.T) {
	p := Proximity{MaxDistance: 1000}
	assert.Equal(t, 100, p.Percent(0))
	assert.Equal(t, 90, p.Percent(100))
	assert.Equal(t, 0, p.Percent(1000))

	// non-positive limits fall back to the default
	assert.Equal(t, ProximityPercent(5000), Proximity{}.Percent(5000))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "1.4 km", FormatDistance(1380, UnitMetric))
	assert.Equal(t, "0.9 mi", FormatDistance(1380, UnitImperial))
	assert.Equal(t, "0.0 km", FormatDistance(0, UnitMetric))
	assert.Equal(t, "-", FormatDistance(Unavailable, UnitMetric))
	assert.Equal(t, "-", FormatDistance(math.NaN(), UnitImperial))

	for _, d := range []float64{0, 12, 999, 15_000, 123_456} {
		assert.True(t, strings.HasSuffix(FormatDistance(d, UnitMetric), " km"))
		assert.True(t, strings.HasSuffix(FormatDistance(d, UnitImperial), " mi"))
	}
}

func TestInterpolate(t *testing.T) {
	assert.Equal(t, sentrum, Interpolate(sentrum, holmenkollen, 0))
	assert.Equal(t, holmenkollen, Interpolate(sentrum, holmenkollen, 1))
	assert.Equal(t, sentrum, Interpolate(sentrum, sentrum, 0.5))

	mid := Interpolate(sentrum, holmenkollen, 0.5)
	d1, _ := DistanceAndDirection(sentrum, mid)
	d2, _ := DistanceAndDirection(mid, holmenkollen)
	assert.InDelta(t, d1, d2, 1)
}

func TestSquareCells(t *testing.T) {
	tests := []struct {
		name      string
		proximity int
		theme     Theme
		dir       Direction
		want      []string
	}{
		{"perfect", 100, ThemeLight, DirError, []string{"🟩", "🟩", "🟩", "🟩", "🟩"}},
		{"seventy five", 75, ThemeLight, DirN, []string{"🟩", "🟩", "🟩", "🟨", "⬜"}},
		{"ninety two dark", 92, ThemeDark, DirS, []string{"🟩", "🟩", "🟩", "🟩", "🟨"}},
		{"thirty one", 31, ThemeLight, DirE, []string{"🟩", "🟨", "⬜", "⬜", "⬜"}},
		{"zero dark", 0, ThemeDark, DirW, []string{"⬛", "⬛", "⬛", "⬛", "⬛"}},
		{"unavailable", 0, ThemeLight, DirError, []string{"⬜", "⬜", "⬜", "⬜", "⬜"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SquareCells(tt.proximity, tt.theme, tt.dir))
		})
	}
}

func TestArrow(t *testing.T) {
	assert.Equal(t, "⬆️", Arrow(DirN))
	assert.Equal(t, "❌", Arrow(DirError))
	assert.Equal(t, "❌", Arrow(Direction("bogus")))
}
