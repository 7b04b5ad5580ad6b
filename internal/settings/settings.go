// Package settings holds the player's display preferences. The core reads
// them; it never persists or mutates them.
package settings

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/maxbax0808/Bergle/internal/geo"
)

// Settings is the read-only preference object consumed by the reveal row and
// the map view.
type Settings struct {
	DistanceUnit    geo.Unit  `json:"distanceUnit"`
	Theme           geo.Theme `json:"theme"`
	BydelHelperMode bool      `json:"bydelHelperMode"` // show district correctness on rows
	HideNamesOnMap  bool      `json:"hideNamesOnMap"`  // hide labels of unguessed places
}

// Default mirrors a first-time visitor.
func Default() Settings {
	return Settings{DistanceUnit: geo.UnitMetric, Theme: geo.ThemeLight}
}

// FromQuery overlays recognised query parameters on the defaults:
// unit=metric|imperial, theme=light|dark, bydelHelper=<bool>, hideNames=<bool>.
// Unknown or malformed values are ignored.
func FromQuery(q url.Values) Settings {
	s := Default()
	switch geo.Unit(strings.ToLower(q.Get("unit"))) {
	case geo.UnitImperial:
		s.DistanceUnit = geo.UnitImperial
	case geo.UnitMetric:
		s.DistanceUnit = geo.UnitMetric
	}
	switch geo.Theme(strings.ToLower(q.Get("theme"))) {
	case geo.ThemeDark:
		s.Theme = geo.ThemeDark
	case geo.ThemeLight:
		s.Theme = geo.ThemeLight
	}
	if b, err := strconv.ParseBool(q.Get("bydelHelper")); err == nil {
		s.BydelHelperMode = b
	}
	if b, err := strconv.ParseBool(q.Get("hideNames")); err == nil {
		s.HideNamesOnMap = b
	}
	return s
}
