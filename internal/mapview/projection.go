// internal/mapview/projection.go
//
// Mercator projection fitted to a set of points, in the manner of d3's
// geoMercator().fitExtent: the projected bounding box is scaled uniformly to
// the largest size that fits the extent and centred in it.

package mapview

import (
	"math"

	geojson "github.com/paulmach/go.geojson"

	"github.com/maxbax0808/Bergle/internal/geo"
	"github.com/maxbax0808/Bergle/internal/mapgraph"
)

// Margin is the padding kept free on every side of the viewport.
const Margin = 20.0

// maxLat keeps Mercator finite.
const maxLat = 85.05112878

// Point is a screen-space position.
type Point struct{ X, Y float64 }

// Extent is a screen rectangle [X0,X1]×[Y0,Y1].
type Extent struct{ X0, Y0, X1, Y1 float64 }

// Padded returns the viewport shrunk by margin on all sides, and false when
// nothing is left (viewport not measured yet).
func Padded(width, height, margin float64) (Extent, bool) {
	e := Extent{X0: margin, Y0: margin, X1: width - margin, Y1: height - margin}
	if !(e.X1 > e.X0) || !(e.Y1 > e.Y0) {
		return Extent{}, false
	}
	return e, true
}

// Projection maps lon/lat to screen space: x = k·λ + tx, y = −k·ln tan(π/4 + φ/2) + ty.
type Projection struct {
	K, TX, TY float64
}

// Project returns the screen position of c.
func (p Projection) Project(c geo.Coord) Point {
	x, y := mercator(c)
	return Point{X: p.K*x + p.TX, Y: p.K*y + p.TY}
}

// mercator is the raw (unit-scale, y-down) projection.
func mercator(c geo.Coord) (float64, float64) {
	lat := math.Max(-maxLat, math.Min(maxLat, c.Lat))
	lon := c.Lon * math.Pi / 180
	phi := lat * math.Pi / 180
	return lon, -math.Log(math.Tan(math.Pi/4 + phi/2))
}

// Features wraps node positions as a GeoJSON FeatureCollection of points.
func Features(nodes []mapgraph.Node) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, n := range nodes {
		f := geojson.NewPointFeature([]float64{n.Longitude, n.Latitude})
		f.SetProperty("id", n.ID)
		f.SetProperty("label", n.Label)
		fc.AddFeature(f)
	}
	return fc
}

// FitExtent fits the point features of fc into ext. It reports false when fc
// has no usable points.
func FitExtent(ext Extent, fc *geojson.FeatureCollection) (Projection, bool) {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	n := 0
	for _, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPoint() || len(f.Geometry.Point) < 2 {
			continue
		}
		c := geo.Coord{Lon: f.Geometry.Point[0], Lat: f.Geometry.Point[1]}
		if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
			continue
		}
		x, y := mercator(c)
		x0, x1 = math.Min(x0, x), math.Max(x1, x)
		y0, y1 = math.Min(y0, y), math.Max(y1, y)
		n++
	}
	if n == 0 {
		return Projection{}, false
	}

	w, h := ext.X1-ext.X0, ext.Y1-ext.Y0
	dx, dy := x1-x0, y1-y0
	var k float64
	switch {
	case dx > 0 && dy > 0:
		k = math.Min(w/dx, h/dy)
	case dx > 0:
		k = w / dx
	case dy > 0:
		k = h / dy
	default:
		// a single location: any scale works, keep it centred
		k = 1
	}
	return Projection{
		K:  k,
		TX: ext.X0 + (w-k*(x0+x1))/2,
		TY: ext.Y0 + (h-k*(y0+y1))/2,
	}, true
}
