// Package render turns container scenes into viewable outputs.
//
// # Overview
//
// The scene itself is built by [scene.Build]. This package and its
// subpackages only present it:
//
//   - Orthographic line drawings (in [projection] subpackage)
//   - Output formats (in [sink] subpackage)
//   - Scene-graph diagrams (in [scenegraph] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They are shared by the
// drawing and scene-graph sinks.
//
//	svg := sink.RenderSVG(drawing)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Interactive View
//
// The interactive 3D view is not rendered here. [sink.RenderHTML] emits a
// page that hands the scene document to three.js in the browser.
//
// [scene.Build]: github.com/matzehuels/stowage/pkg/scene.Build
// [sink.RenderHTML]: github.com/matzehuels/stowage/pkg/render/sink.RenderHTML
package render
