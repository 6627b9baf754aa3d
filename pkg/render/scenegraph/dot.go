// Package scenegraph renders the stage hierarchy as a node-link diagram.
//
// The root scene node links to one node per category, which links to the
// primitives currently attached for that category. The diagram is
// produced as Graphviz DOT and laid out with go-graphviz:
//
//	dot := scenegraph.ToDOT(stage.Nodes(), scenegraph.Options{Detailed: true})
//	svg, err := scenegraph.RenderSVG(ctx, dot)
package scenegraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stowage/pkg/scene"
)

// DefaultMaxItems is how many item nodes are drawn before the rest are
// folded into a single summary node.
const DefaultMaxItems = 12

// Options configures diagram rendering.
type Options struct {
	// Detailed adds the category revision to each category label.
	Detailed bool
	// MaxItems caps the item nodes drawn. Zero means DefaultMaxItems,
	// negative means no cap.
	MaxItems int
}

var categoryColors = map[scene.Category]string{
	scene.CategoryContainer: "#e8e8e8",
	scene.CategoryDoors:     "#d0d0d0",
	scene.CategoryFloor:     "#cfd8ff",
	scene.CategoryItems:     "#ffd0d0",
}

// ToDOT converts stage nodes to Graphviz DOT.
func ToDOT(nodes []scene.Node, opts Options) string {
	maxItems := opts.MaxItems
	if maxItems == 0 {
		maxItems = DefaultMaxItems
	}

	byCat := make(map[scene.Category][]scene.Node)
	rev := make(map[scene.Category]int)
	for _, n := range nodes {
		byCat[n.Category] = append(byCat[n.Category], n)
		rev[n.Category] = n.Revision
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Scene {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")
	buf.WriteString("  \"scene\" [label=\"scene\", shape=ellipse];\n")

	for _, c := range scene.Categories {
		label := string(c)
		if opts.Detailed {
			label = fmt.Sprintf("%s\nrev %d", c, rev[c])
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", "cat:"+string(c), label, categoryColors[c])
		fmt.Fprintf(&buf, "  \"scene\" -> %q;\n", "cat:"+string(c))

		members := byCat[c]
		shown := members
		if maxItems > 0 && c == scene.CategoryItems && len(members) > maxItems {
			shown = members[:maxItems]
		}
		for _, n := range shown {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.ID)
			fmt.Fprintf(&buf, "  %q -> %q;\n", "cat:"+string(c), n.ID)
		}
		if rest := len(members) - len(shown); rest > 0 {
			fmt.Fprintf(&buf, "  \"items:more\" [label=\"+%d more\", style=\"rounded,dashed\"];\n", rest)
			fmt.Fprintf(&buf, "  %q -> \"items:more\";\n", "cat:"+string(c))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one whose
// viewBox starts at the origin, so the SVG scales like the other sinks.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
