// Package sink provides output format renderers for container scenes.
//
// # Overview
//
// A "sink" transforms a built [scene.Scene] (or its 2D projection) into a
// final output format. This package provides renderers for:
//
//   - JSON: the scene document consumed by the viewer and by [scene.ReadFile]
//   - HTML: a standalone three.js viewer with orbit controls
//   - SVG: an orthographic wireframe drawing
//   - PNG: the same drawing rasterized in-process
//   - PDF: print-ready output (requires rsvg-convert)
//   - STL: a solid mesh of the packed cargo
//   - XLSX: an item manifest with a summary sheet
//   - Chart: an HTML bar chart of items per column
//
// # Drawings
//
// [RenderSVG], [RenderPNG] and [RenderPDF] take a [projection.Drawing]:
//
//	d, err := projection.Project(s, projection.Options{View: projection.ViewIso, Width: 800, Height: 600})
//	svg := sink.RenderSVG(d, sink.WithBackground("#ffffff"))
//	png, err := sink.RenderPNG(d, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(ctx, d)
//
// PNG is drawn with fogleman/gg and needs no external tools. PDF goes
// through [render.ToPDF] and requires librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// # Viewer
//
// [RenderHTML] embeds the scene document in a page that loads three.js
// and OrbitControls from a CDN. The page keeps one object per category and
// replaces it on rebuild, renders only when the controls move, and
// recomputes the camera aspect when the window is resized. With
// [WithAPIBase] the page also shows a parameter form that posts to the
// server and swaps in the returned scene.
//
// # Adding New Formats
//
//  1. Create a renderer function: func RenderFoo(s scene.Scene, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Register the format in pkg/pipeline (ValidFormats and the render switch)
//
// [scene.Scene]: github.com/matzehuels/stowage/pkg/scene.Scene
// [scene.ReadFile]: github.com/matzehuels/stowage/pkg/scene.ReadFile
// [projection.Drawing]: github.com/matzehuels/stowage/pkg/render/projection.Drawing
// [render.ToPDF]: github.com/matzehuels/stowage/pkg/render.ToPDF
package sink
