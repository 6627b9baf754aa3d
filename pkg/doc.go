// Package pkg provides the core libraries for Stowage container scene layouts.
//
// # Overview
//
// Stowage turns a handful of scalar parameters (container dimensions, item
// size and count, gap, colors) into a 3D wireframe scene of a shipping
// container with its doors swung open, a floor grid and cargo boxes packed
// column by column. The pkg directory is organized into these areas:
//
//  1. [scene] - Domain logic (parameters, geometry, packing, analysis)
//  2. [render] - Presentation (projections and output formats)
//  3. [pipeline] - Orchestration (build → analyze → render, with caching)
//  4. [cache], [store] - Infrastructure (artifact cache, preset storage)
//  5. [server], [watcher] - Entry points beyond the CLI
//
// # Architecture
//
// The typical data flow through Stowage:
//
//	Params (flags, config file, preset, form)
//	         ↓
//	    [scene] package (build container, doors, floor, items)
//	         ↓
//	    [render/projection] package (orthographic line drawing)
//	         ↓
//	    [render/sink] package (JSON, HTML, SVG, PNG, PDF, STL, XLSX, chart, DOT)
//
// # Quick Start
//
// Build a scene and render it to SVG:
//
//	import (
//	    "github.com/matzehuels/stowage/pkg/render/projection"
//	    "github.com/matzehuels/stowage/pkg/render/sink"
//	    "github.com/matzehuels/stowage/pkg/scene"
//	)
//
//	p := scene.DefaultParams()
//	p.NumItems = 24
//	s := scene.Build(p)
//	d, err := projection.Project(s, projection.Options{
//	    View:  projection.ViewIso,
//	    Width: 1200, Height: 800,
//	})
//	svg := sink.RenderSVG(d)
//
// Or let the pipeline handle formats and caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Params:  p,
//	    Formats: []string{"svg", "html"},
//	})
//
// # Main Packages
//
// [scene] - Parameters with defaults, the container outline, door slabs,
// floor grid and column-fill item packing. [scene.Stage] keeps the four
// categories separately so that a change rebuilds one of them and
// triggers a single render.
//
// [render/projection] - Orthographic projection of a scene into 2D line
// segments for the iso, front, side and top views.
//
// [render/sink] - Output formats. The HTML sink embeds the scene document
// in a three.js viewer with orbit controls.
//
// [render/scenegraph] - Graphviz diagram of the scene's object hierarchy.
//
// [pipeline] - Runs build and render for a set of formats, consulting the
// cache at both stages.
//
// [cache] - File, Redis and null caches keyed by a hash of parameters and
// render options.
//
// [store] - Named parameter presets in memory, as JSON files or in MongoDB.
//
// [server] - HTTP form and JSON API with the interactive viewer.
//
// [watcher] - Debounced file watching for live rebuilds.
//
// [config] - TOML configuration for scene defaults and backends.
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/scene
// [scene.Stage]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/scene#Stage
// [render]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/render
// [render/projection]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/render/projection
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/render/sink
// [render/scenegraph]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/render/scenegraph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/server
// [watcher]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/watcher
// [config]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/config
package pkg
