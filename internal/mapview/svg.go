package mapview

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"
)

// WriteSVG draws the scene: background, then a transformed group holding the
// edges and one node group (circle + label) per node.
func WriteSVG(w io.Writer, s *Scene, palette Palette) error {
	if s == nil {
		return fmt.Errorf("mapview: no scene (view closed)")
	}
	width, height := s.Width, s.Height
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	if s.Title != "" {
		canvas.Title(s.Title)
	}
	canvas.Rect(0, 0, width, height, "fill:"+palette.Background)
	canvas.Group(fmt.Sprintf(`transform="%s"`, s.Transform.String()))

	for _, e := range s.Edges {
		canvas.Path(pathData(e.Path),
			fmt.Sprintf(`id="edge-%s"`, escapeAttr(e.ID)),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.3f", palette.Edge, s.Style.StrokeWidth))
	}

	for _, n := range s.Nodes {
		canvas.Group(`class="node-group"`)
		canvas.Circle(n.X, n.Y, s.Style.Radius,
			fmt.Sprintf(`id="%s"`, escapeAttr(n.ID)),
			"fill:"+n.Fill)
		label := fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-size:%.3fpx;fill:%s",
			s.Style.FontSize, palette.Label)
		if !n.LabelVisible {
			label += ";display:none"
		}
		canvas.Text(n.X, n.Y, n.Label, fmt.Sprintf(`dy="%s"`, s.Style.LabelDy), label)
		canvas.Gend()
	}

	canvas.Gend()
	canvas.End()
	return nil
}

func pathData(pts []Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&b, "M%.2f,%.2f", p.X, p.Y)
			continue
		}
		fmt.Fprintf(&b, "L%.2f,%.2f", p.X, p.Y)
	}
	return b.String()
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
