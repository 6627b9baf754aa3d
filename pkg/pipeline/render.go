package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/stowage/pkg/render/projection"
	"github.com/matzehuels/stowage/pkg/render/scenegraph"
	"github.com/matzehuels/stowage/pkg/render/sink"
	"github.com/matzehuels/stowage/pkg/scene"
)

// RenderScene generates output artifacts in the requested formats.
// Options must already be validated.
func RenderScene(ctx context.Context, s scene.Scene, r scene.Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// Projection is shared by the drawing formats and computed at most once.
	var drawing *projection.Drawing
	project := func() (projection.Drawing, error) {
		if drawing != nil {
			return *drawing, nil
		}
		d, err := projection.Project(s, projection.Options{
			View:   projection.View(opts.View),
			Width:  opts.Width,
			Height: opts.Height,
			Labels: opts.Labels,
		})
		if err != nil {
			return projection.Drawing{}, err
		}
		drawing = &d
		return d, nil
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = sink.RenderJSON(s, sink.WithReport(r))
		case FormatHTML:
			data, err = sink.RenderHTML(s, buildHTMLOptions(opts)...)
		case FormatSVG:
			var d projection.Drawing
			if d, err = project(); err == nil {
				data = sink.RenderSVG(d, buildSVGOptions(opts)...)
			}
		case FormatPNG:
			var d projection.Drawing
			if d, err = project(); err == nil {
				data, err = sink.RenderPNG(d, buildPNGOptions(opts)...)
			}
		case FormatPDF:
			var d projection.Drawing
			if d, err = project(); err == nil {
				data, err = sink.RenderPDF(ctx, d, sink.WithPDFSVGOptions(buildSVGOptions(opts)...))
			}
		case FormatSTL:
			data, err = sink.RenderSTL(s, buildSTLOptions(opts)...)
		case FormatXLSX:
			data, err = sink.RenderXLSX(s, r)
		case FormatChart:
			data, err = sink.RenderChart(s, r)
		case FormatGraph:
			dot := scenegraph.ToDOT(s.Nodes(), scenegraph.Options{})
			data, err = scenegraph.RenderSVG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

func buildSTLOptions(opts Options) []sink.STLOption {
	stlOpts := []sink.STLOption{sink.WithMeshCells(opts.MeshCells)}
	if opts.FloorSlab {
		stlOpts = append(stlOpts, sink.WithFloorSlab())
	}
	return stlOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	var pngOpts []sink.PNGOption
	if opts.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
	}
	return pngOpts
}

func buildHTMLOptions(opts Options) []sink.HTMLOption {
	var htmlOpts []sink.HTMLOption
	if opts.Title != "" {
		htmlOpts = append(htmlOpts, sink.WithHTMLTitle(opts.Title))
	}
	if opts.Background != "" {
		htmlOpts = append(htmlOpts, sink.WithHTMLBackground(opts.Background))
	}
	if opts.APIBase != "" {
		htmlOpts = append(htmlOpts, sink.WithAPIBase(opts.APIBase))
	}
	return htmlOpts
}
