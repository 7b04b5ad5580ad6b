// internal/mapview/view.go
//
// Map view controller.
// Responsibilities:
//   - Hold the current inputs (open state, target, guesses, viewport, settings).
//   - Rebuild the whole display list whenever any of them changes, and drop it
//     when the view closes.
//   - Apply pan/zoom to the existing display list without rebuilding.
//
// Rebuild order: graph → projection → target fill → guess highlights → marks.

package mapview

import (
	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/game"
	"github.com/maxbax0808/Bergle/internal/highlight"
	"github.com/maxbax0808/Bergle/internal/mapgraph"
	"github.com/maxbax0808/Bergle/internal/settings"
)

// Palette holds the map colours.
type Palette struct {
	Background string
	Node       string
	Active     string // the target node, before guess colouring
	Edge       string
	Label      string
}

// DefaultPalette is the dark navy map theme.
var DefaultPalette = Palette{
	Background: "#0f172a",
	Node:       "#f2a900",
	Active:     "#f5b82e",
	Edge:       "white",
	Label:      "#AAAAAA",
}

// Inputs is everything a render depends on.
type Inputs struct {
	Open     bool
	Target   catalog.Entity
	Guesses  []game.Guess
	Width    float64
	Height   float64
	Settings settings.Settings
	Touch    bool // coarse pointer (phone/tablet)
	Title    string
}

func (in Inputs) equal(o Inputs) bool {
	if in.Open != o.Open || in.Target.Code != o.Target.Code || in.Target.Name != o.Target.Name ||
		in.Width != o.Width || in.Height != o.Height || in.Settings != o.Settings ||
		in.Touch != o.Touch || in.Title != o.Title || len(in.Guesses) != len(o.Guesses) {
		return false
	}
	for i := range in.Guesses {
		if in.Guesses[i] != o.Guesses[i] {
			return false
		}
	}
	return true
}

// View owns the display list of the map. It is not safe for concurrent use.
type View struct {
	entities []catalog.Entity
	palette  Palette

	in       Inputs
	hasInput bool
	zoom     Zoom
	scene    *Scene
	rebuilds int
}

// NewView creates a closed view over the catalog entities.
func NewView(entities []catalog.Entity, palette Palette) *View {
	return &View{entities: entities, palette: palette, zoom: NewZoom(false)}
}

// Update sets the inputs and rebuilds the scene if any of them changed.
// It reports whether a rebuild (or discard) happened.
func (v *View) Update(in Inputs) bool {
	if v.hasInput && v.in.equal(in) {
		return false
	}
	v.in = in
	v.in.Guesses = append([]game.Guess(nil), in.Guesses...)
	v.hasInput = true
	v.rebuild()
	return true
}

// Scene returns the current display list, or nil while the view is closed.
func (v *View) Scene() *Scene { return v.scene }

// Rebuilds counts full rebuilds since creation.
func (v *View) Rebuilds() int { return v.rebuilds }

// Pan moves the view by (dx, dy) screen pixels.
func (v *View) Pan(dx, dy float64) {
	v.zoom.Pan(dx, dy)
	v.restyle()
}

// ScaleBy zooms by factor around the screen point (cx, cy).
func (v *View) ScaleBy(factor, cx, cy float64) {
	v.zoom.ScaleBy(factor, cx, cy)
	v.restyle()
}

// SetTransform jumps to t (scale clamped).
func (v *View) SetTransform(t Transform) {
	v.zoom.Set(t)
	v.restyle()
}

func (v *View) restyle() {
	if v.scene == nil {
		return
	}
	t := v.zoom.Transform()
	v.scene.Transform = t
	v.scene.Style = StyleAt(t.K, v.in.Touch)
}

func (v *View) rebuild() {
	v.rebuilds++
	if !v.in.Open {
		v.scene = nil
		return
	}
	v.zoom = NewZoom(v.in.Touch)
	v.scene = Render(v.entities, v.in, v.palette)
	v.restyle()
}

// Render builds a fresh display list for in. An unmeasured viewport yields an
// empty scene.
func Render(entities []catalog.Entity, in Inputs, palette Palette) *Scene {
	t := InitialTransform(in.Touch)
	scene := &Scene{
		Width:     in.Width,
		Height:    in.Height,
		Title:     in.Title,
		Edges:     []EdgeMark{},
		Nodes:     []NodeMark{},
		Transform: t,
		Style:     StyleAt(t.K, in.Touch),
	}

	ext, ok := Padded(in.Width, in.Height, Margin)
	if !ok {
		return scene
	}
	nodes, edges := mapgraph.Build(entities)
	proj, ok := FitExtent(ext, Features(nodes))
	if !ok {
		return scene
	}

	target := catalog.Normalize(in.Target.Name)
	for i := range nodes {
		if target != "" && catalog.Normalize(nodes[i].Label) == target {
			nodes[i].Fill = palette.Active
		}
	}
	highlight.Apply(in.Target.Name, in.Guesses, nodes, in.Settings.HideNamesOnMap)

	idx := mapgraph.Index(nodes)
	for _, e := range edges {
		si, okS := idx[e.Source]
		ti, okT := idx[e.Target]
		if !okS || !okT {
			continue
		}
		a, b := nodes[si], nodes[ti]
		scene.Edges = append(scene.Edges, EdgeMark{
			ID:   e.Source + "|" + e.Target,
			Path: greatCirclePath(proj, coordOf(a), coordOf(b)),
		})
	}
	for _, n := range nodes {
		p := proj.Project(coordOf(n))
		fill := n.Fill
		if fill == "" {
			fill = palette.Node
		}
		scene.Nodes = append(scene.Nodes, NodeMark{
			ID:           n.ID,
			Label:        n.Label,
			X:            p.X,
			Y:            p.Y,
			Fill:         fill,
			LabelVisible: !n.LabelHidden,
		})
	}
	return scene
}
