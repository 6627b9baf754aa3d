package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/stowage/pkg/render/projection"
	"github.com/matzehuels/stowage/pkg/scene"
)

const svgStyle = `
    .container line { stroke-width: 1.5; }
    .doors line { stroke-width: 1.2; }
    .floor line { stroke-width: 0.6; }
    .items polygon { stroke: #000000; stroke-opacity: 0.35; stroke-width: 0.6; }
    .labels text { font: 11px sans-serif; text-anchor: middle; dominant-baseline: middle; fill: #ffffff; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	title      string
}

// WithBackground fills the frame with a solid color. The default is transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle sets the document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG renders a projected drawing. Layers are written back to
// front: floor, items, container, doors, labels.
func RenderSVG(d projection.Drawing, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		d.Width, d.Height, d.Width, d.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}

	renderSegments(&buf, d, scene.CategoryFloor)
	renderPolygons(&buf, d)
	renderSegments(&buf, d, scene.CategoryContainer)
	renderSegments(&buf, d, scene.CategoryDoors)
	renderLabels(&buf, d)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSegments(buf *bytes.Buffer, d projection.Drawing, layer projection.Layer) {
	segs := d.LayerSegments(layer)
	if len(segs) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <g class="%s">`+"\n", layer)
	for _, s := range segs {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"%s/>`+"\n",
			s.A.X, s.A.Y, s.B.X, s.B.Y, html.EscapeString(s.Color), opacityAttr("stroke-opacity", s.Opacity))
	}
	buf.WriteString("  </g>\n")
}

func renderPolygons(buf *bytes.Buffer, d projection.Drawing) {
	if len(d.Polygons) == 0 {
		return
	}
	buf.WriteString(`  <g class="items">` + "\n")
	for _, p := range d.Polygons {
		buf.WriteString(`    <polygon points="`)
		for i, pt := range p.Points {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(buf, "%.2f,%.2f", pt.X, pt.Y)
		}
		fmt.Fprintf(buf, `" fill="%s"%s/>`+"\n", html.EscapeString(p.Color), opacityAttr("fill-opacity", p.Opacity))
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, d projection.Drawing) {
	if len(d.Labels) == 0 {
		return
	}
	buf.WriteString(`  <g class="labels">` + "\n")
	for _, l := range d.Labels {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f">%s</text>`+"\n", l.At.X, l.At.Y, html.EscapeString(l.Text))
	}
	buf.WriteString("  </g>\n")
}

func opacityAttr(name string, v float64) string {
	if v >= 1 || v < 0 {
		return ""
	}
	return fmt.Sprintf(` %s="%.2f"`, name, v)
}
