package mapview

import (
	"fmt"
	"math"
)

// Scale bounds of the interactive zoom.
const (
	MinScale = 1.0
	MaxScale = 10.0
)

// sidePanelOffset shifts the initial view on fine-pointer screens, where the
// side panel is expanded.
const sidePanelOffset = 100.0

// Transform is a uniform scale followed by a translation: p' = p·K + (X, Y).
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the untransformed view.
var Identity = Transform{K: 1}

// InitialTransform is the view shown after every rebuild.
func InitialTransform(touch bool) Transform {
	if touch {
		return Identity
	}
	return Transform{K: 1, X: sidePanelOffset}
}

// Apply maps a scene point through the transform.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// String renders the transform as an SVG transform attribute value.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// Zoom holds the current transform and keeps its scale within [MinScale, MaxScale].
type Zoom struct {
	t Transform
}

// NewZoom starts at the initial transform.
func NewZoom(touch bool) Zoom { return Zoom{t: InitialTransform(touch)} }

// Transform returns the current transform.
func (z Zoom) Transform() Transform { return z.t }

// Set replaces the transform, clamping its scale.
func (z *Zoom) Set(t Transform) {
	if math.IsNaN(t.X) || math.IsInf(t.X, 0) {
		t.X = 0
	}
	if math.IsNaN(t.Y) || math.IsInf(t.Y, 0) {
		t.Y = 0
	}
	t.K = clampScale(t.K)
	z.t = t
}

// Pan translates the view by (dx, dy) screen pixels.
func (z *Zoom) Pan(dx, dy float64) {
	z.Set(Transform{K: z.t.K, X: z.t.X + dx, Y: z.t.Y + dy})
}

// ScaleBy multiplies the scale by factor, keeping the screen point (cx, cy) fixed.
func (z *Zoom) ScaleBy(factor, cx, cy float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	k0 := z.t.K
	k1 := clampScale(k0 * factor)
	// scene point under the cursor stays under the cursor
	sx, sy := (cx-z.t.X)/k0, (cy-z.t.Y)/k0
	z.Set(Transform{K: k1, X: cx - sx*k1, Y: cy - sy*k1})
}

func clampScale(k float64) float64 {
	if math.IsNaN(k) || k < MinScale {
		return MinScale
	}
	if k > MaxScale {
		return MaxScale
	}
	return k
}

// Style is the scale-dependent drawing style of labels, nodes and edges.
type Style struct {
	FontSize    float64 `json:"fontSize"`    // px
	Radius      float64 `json:"radius"`      // px
	StrokeWidth float64 `json:"strokeWidth"` // px
	LabelDy     string  `json:"labelDy"`
}

// StyleAt returns the style for scale k. Font size, radius and stroke width
// shrink continuously as k grows so the map stays legible when zoomed in.
func StyleAt(k float64, touch bool) Style {
	k = clampScale(k)
	s := Style{
		Radius:      4.5 - 1.4428*math.Log(k),
		StrokeWidth: 1 / k,
		LabelDy:     "1em",
	}
	if k <= 6 {
		s.FontSize = -4.03955 * math.Log(0.109089*k)
	} else {
		s.FontSize = 2.34836 - 0.106045*k
		if !touch {
			s.LabelDy = "2em"
		}
	}
	return s
}
