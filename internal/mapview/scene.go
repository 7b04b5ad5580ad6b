package mapview

import (
	"github.com/maxbax0808/Bergle/internal/geo"
	"github.com/maxbax0808/Bergle/internal/mapgraph"
)

// edgeSegments is the number of great-circle segments per edge.
const edgeSegments = 8

// EdgeMark is a drawn edge keyed by "source|target".
type EdgeMark struct {
	ID   string  `json:"id"`
	Path []Point `json:"path"`
}

// NodeMark is a drawn node: circle plus label.
type NodeMark struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Fill         string  `json:"fill"`
	LabelVisible bool    `json:"labelVisible"`
}

// Scene is the display list of one render. It is rebuilt from scratch whenever
// an input of the view changes.
type Scene struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Title     string     `json:"title,omitempty"`
	Edges     []EdgeMark `json:"edges"`
	Nodes     []NodeMark `json:"nodes"`
	Transform Transform  `json:"transform"`
	Style     Style      `json:"style"`
}

// Node returns the node mark with id.
func (s *Scene) Node(id string) (NodeMark, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeMark{}, false
}

// greatCirclePath projects the great circle from a to b as a polyline.
func greatCirclePath(p Projection, a, b geo.Coord) []Point {
	pts := make([]Point, 0, edgeSegments+1)
	for i := 0; i <= edgeSegments; i++ {
		pts = append(pts, p.Project(geo.Interpolate(a, b, float64(i)/edgeSegments)))
	}
	return pts
}

func coordOf(n mapgraph.Node) geo.Coord {
	return geo.Coord{Lat: n.Latitude, Lon: n.Longitude}
}
