// internal/geo/metrics.go
//
// Distance and compass direction between two places.
// Responsibilities:
//   - Great-circle (haversine) distance in meters.
//   - Bearing from guess to target bucketed into eight 45° sectors.
//   - Great-circle interpolation for drawing map edges.
//
// Notes:
//   - Everything here is total: bad input degrades to Unavailable/DirError,
//     nothing panics and nothing returns an error.

package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Unavailable is the distance reported when either coordinate is missing or invalid.
const Unavailable = -1.0

// Coord is a WGS84 latitude/longitude pair in degrees.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether c is a finite, in-range coordinate.
// Missing catalog values are loaded as NaN and therefore invalid.
func (c Coord) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coord) point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Direction is one of the eight compass sectors, or DirError.
type Direction string

const (
	DirN     Direction = "N"
	DirNE    Direction = "NE"
	DirE     Direction = "E"
	DirSE    Direction = "SE"
	DirS     Direction = "S"
	DirSW    Direction = "SW"
	DirW     Direction = "W"
	DirNW    Direction = "NW"
	DirError Direction = "ERROR"
)

// sectors is ordered clockwise from north; index = round(bearing/45) mod 8.
var sectors = [8]Direction{DirN, DirNE, DirE, DirSE, DirS, DirSW, DirW, DirNW}

// DistanceAndDirection returns the great-circle distance in meters from guess
// to target and the compass sector of the initial bearing.
//
// Direction is DirError when the two coordinates coincide (bearing undefined)
// or when either coordinate is invalid; in the latter case the distance is
// Unavailable.
func DistanceAndDirection(guess, target Coord) (float64, Direction) {
	if !guess.Valid() || !target.Valid() {
		return Unavailable, DirError
	}
	if guess == target {
		return 0, DirError
	}
	d := orbgeo.DistanceHaversine(guess.point(), target.point())
	if d == 0 || math.IsNaN(d) {
		return 0, DirError
	}
	return d, bearingSector(orbgeo.Bearing(guess.point(), target.point()))
}

// bearingSector maps a bearing in degrees (any range) to its 45° sector.
func bearingSector(bearing float64) Direction {
	if math.IsNaN(bearing) || math.IsInf(bearing, 0) {
		return DirError
	}
	b := math.Mod(bearing, 360)
	if b < 0 {
		b += 360
	}
	return sectors[int(math.Floor((b+22.5)/45))%8]
}

// Interpolate returns the point a fraction t of the way along the great circle
// from a to b. t is clamped to [0,1].
func Interpolate(a, b Coord, t float64) Coord {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)

	// angular distance
	delta := 2 * math.Asin(math.Sqrt(
		math.Pow(math.Sin((lat2-lat1)/2), 2)+
			math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin((lon2-lon1)/2), 2)))
	if delta == 0 || math.IsNaN(delta) {
		return a
	}
	fa := math.Sin((1-t)*delta) / math.Sin(delta)
	fb := math.Sin(t*delta) / math.Sin(delta)
	x := fa*math.Cos(lat1)*math.Cos(lon1) + fb*math.Cos(lat2)*math.Cos(lon2)
	y := fa*math.Cos(lat1)*math.Sin(lon1) + fb*math.Cos(lat2)*math.Sin(lon2)
	z := fa*math.Sin(lat1) + fb*math.Sin(lat2)
	return Coord{
		Lat: degrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Lon: degrees(math.Atan2(y, x)),
	}
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }
