package sink

import (
	"bytes"
	"context"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/stowage/pkg/render"
	"github.com/matzehuels/stowage/pkg/render/projection"
	"github.com/matzehuels/stowage/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts    []SVGOption
	scale      float64
	background string
	rsvg       context.Context
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the image before drawing. The default is transparent.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// WithRSVG rasterizes the SVG output with rsvg-convert instead of drawing
// in-process. SVG options are passed through.
func WithRSVG(ctx context.Context, opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.rsvg = ctx; r.svgOpts = opts }
}

// RenderPNG rasterizes a projected drawing.
func RenderPNG(d projection.Drawing, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("invalid scale %g", r.scale)
	}
	if r.rsvg != nil {
		svgOpts := r.svgOpts
		if r.background != "" {
			svgOpts = append(svgOpts, WithBackground(r.background))
		}
		return render.ToPNG(r.rsvg, RenderSVG(d, svgOpts...), r.scale)
	}

	w, h := int(d.Width*r.scale+0.5), int(d.Height*r.scale+0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)

	if r.background != "" {
		c, err := parseColor(r.background, 1)
		if err != nil {
			return nil, err
		}
		dc.SetColor(c)
		dc.Clear()
	}

	if err := strokeLayer(dc, d, scene.CategoryFloor, 0.6); err != nil {
		return nil, err
	}
	for _, p := range d.Polygons {
		if len(p.Points) == 0 {
			continue
		}
		c, err := parseColor(p.Color, p.Opacity)
		if err != nil {
			return nil, err
		}
		dc.NewSubPath()
		dc.MoveTo(p.Points[0].X, p.Points[0].Y)
		for _, pt := range p.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
		dc.SetColor(c)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 0.35)
		dc.SetLineWidth(0.6)
		dc.Stroke()
	}
	if err := strokeLayer(dc, d, scene.CategoryContainer, 1.5); err != nil {
		return nil, err
	}
	if err := strokeLayer(dc, d, scene.CategoryDoors, 1.2); err != nil {
		return nil, err
	}

	dc.SetRGB(1, 1, 1)
	for _, l := range d.Labels {
		dc.DrawStringAnchored(l.Text, l.At.X, l.At.Y, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func strokeLayer(dc *gg.Context, d projection.Drawing, layer projection.Layer, width float64) error {
	dc.SetLineWidth(width)
	for _, s := range d.LayerSegments(layer) {
		c, err := parseColor(s.Color, s.Opacity)
		if err != nil {
			return err
		}
		dc.SetColor(c)
		dc.DrawLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
		dc.Stroke()
	}
	return nil
}

// parseColor reads a CSS hex color and applies an opacity in [0, 1].
func parseColor(hex string, opacity float64) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("color %q: %w", hex, err)
	}
	if opacity < 0 || opacity > 1 {
		opacity = 1
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(opacity*255 + 0.5)}, nil
}
