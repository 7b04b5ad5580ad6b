// Package mapgraph turns the place catalog into the node/edge set drawn on the
// map.
package mapgraph

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/maxbax0808/Bergle/internal/catalog"
)

// Node is a map vertex derived from a catalog entity.
type Node struct {
	ID          string
	Label       string
	Latitude    float64
	Longitude   float64
	Neighbours  []string
	Fill        string // optional override of the theme fill
	LabelHidden bool
}

// Edge is an undirected adjacency; Source/Target keep the first declared direction.
type Edge struct {
	Source string
	Target string
}

type edgeKey struct{ a, b string }

// Build creates one node per entity and one edge per adjacent pair.
//
// Entities are walked in catalog order and every declared neighbour u→v adds
// {u,v} unless the pair is already present in either direction, so one-sided
// and two-sided declarations both yield a single edge. Self references are
// dropped. Neighbour codes that do not resolve are kept; the renderer skips
// them.
func Build(entities []catalog.Entity) ([]Node, []Edge) {
	nodes := make([]Node, 0, len(entities))
	for _, e := range entities {
		nodes = append(nodes, Node{
			ID:         e.Code,
			Label:      e.Name,
			Latitude:   orZero(e.Latitude),
			Longitude:  orZero(e.Longitude),
			Neighbours: append([]string(nil), e.Neighbours...),
		})
	}

	seen := mapset.New[edgeKey]()
	var edges []Edge
	for _, n := range nodes {
		for _, nb := range n.Neighbours {
			if nb == n.ID {
				continue
			}
			if seen.Has(edgeKey{nb, n.ID}) || seen.Has(edgeKey{n.ID, nb}) {
				continue
			}
			seen.Put(edgeKey{n.ID, nb})
			edges = append(edges, Edge{Source: n.ID, Target: nb})
		}
	}
	return nodes, edges
}

// Index maps node ids to positions in nodes.
func Index(nodes []Node) map[string]int {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		idx[n.ID] = i
	}
	return idx
}

func orZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
