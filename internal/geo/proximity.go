package geo

import (
	"fmt"
	"math"
)

// DefaultMaxDistance is the distance (meters) at which proximity bottoms out at 0%.
// It roughly spans the built-up area of Oslo.
const DefaultMaxDistance = 20_000.0

// Proximity converts distances into a 0–100 closeness score.
type Proximity struct {
	MaxDistance float64 // meters; values <= 0 fall back to DefaultMaxDistance
}

// Percent maps distance to [0,100]: 100 at zero distance, falling linearly to
// 0 at MaxDistance and clamped there. Unavailable (negative) and NaN distances
// score 0.
func (p Proximity) Percent(distance float64) int {
	limit := p.MaxDistance
	if limit <= 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
		limit = DefaultMaxDistance
	}
	if math.IsNaN(distance) || distance < 0 {
		return 0
	}
	if distance >= limit {
		return 0
	}
	pct := int(math.Floor((limit - distance) / limit * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// ProximityPercent scores distance against DefaultMaxDistance.
func ProximityPercent(distance float64) int {
	return Proximity{MaxDistance: DefaultMaxDistance}.Percent(distance)
}

// Unit is the distance unit used for display.
type Unit string

const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

const metersPerMile = 1609.344

// FormatDistance renders distance (meters) in the given unit with one decimal,
// e.g. "3.4 km" or "2.1 mi". Unknown units format as metric; unavailable
// distances render as "-".
func FormatDistance(distance float64, unit Unit) string {
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		return "-"
	}
	if unit == UnitImperial {
		return fmt.Sprintf("%.1f mi", distance/metersPerMile)
	}
	return fmt.Sprintf("%.1f km", distance/1000)
}
