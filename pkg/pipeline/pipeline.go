// Package pipeline provides the build → render pipeline for Stowage.
//
// The CLI, the HTTP server and the watch loop all go through this package,
// so every entry point caches, validates and logs the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: Compute the scene primitives from the container parameters
//  2. Render: Generate outputs in the requested formats
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Params:  scene.DefaultParams(),
//	    Formats: []string{"html", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
//
// Run individual stages:
//
//	s, err := runner.Build(ctx, opts)
//	artifacts, err := runner.Render(ctx, s, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/render/projection"
	"github.com/matzehuels/stowage/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watch
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultMeshCells is the marching-cubes resolution along the longest
	// axis of the STL solid.
	DefaultMeshCells = 200

	// DefaultView is the default projection for drawings.
	DefaultView = string(projection.ViewIso)
)

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatHTML  = "html"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatSTL   = "stl"
	FormatXLSX  = "xlsx"
	FormatChart = "chart"
	FormatGraph = "graph"
)

// FormatOrder lists the formats in the order they are documented.
var FormatOrder = []string{
	FormatJSON, FormatHTML, FormatSVG, FormatPNG, FormatPDF,
	FormatSTL, FormatXLSX, FormatChart, FormatGraph,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatHTML:  true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatSTL:   true,
	FormatXLSX:  true,
	FormatChart: true,
	FormatGraph: true,
}

// Extensions maps formats to file extensions.
var Extensions = map[string]string{
	FormatJSON:  ".json",
	FormatHTML:  ".html",
	FormatSVG:   ".svg",
	FormatPNG:   ".png",
	FormatPDF:   ".pdf",
	FormatSTL:   ".stl",
	FormatXLSX:  ".xlsx",
	FormatChart: ".chart.html",
	FormatGraph: ".graph.svg",
}

// ContentTypes maps formats to HTTP content types.
var ContentTypes = map[string]string{
	FormatJSON:  "application/json",
	FormatHTML:  "text/html; charset=utf-8",
	FormatSVG:   "image/svg+xml",
	FormatPNG:   "image/png",
	FormatPDF:   "application/pdf",
	FormatSTL:   "model/stl",
	FormatXLSX:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatChart: "text/html; charset=utf-8",
	FormatGraph: "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Params  scene.Params `json:"params"`
	Refresh bool         `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	View       string   `json:"view,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	MeshCells  int      `json:"mesh_cells,omitempty"`
	FloorSlab  bool     `json:"floor_slab,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Background string   `json:"background,omitempty"`
	Title      string   `json:"title,omitempty"`
	APIBase    string   `json:"api_base,omitempty"` // enables the viewer form

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the built scene.
	Scene scene.Scene

	// SceneHash is the content hash of the serialized scene.
	SceneHash string

	// Report is the placement analysis of Scene.
	Report scene.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount   int
	ColumnCount int
	BuildTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatOrder, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if _, err := projection.ParseView(view); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidView, err,
			"invalid view: %q (must be one of: iso, front, side, top)", view)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetBuildDefaults fills unset colors and the logger.
func (o *Options) SetBuildDefaults() {
	o.Params = o.Params.WithColorDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MeshCells == 0 {
		o.MeshCells = DefaultMeshCells
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
// This method is idempotent.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame size must not be negative")
	}
	return nil
}

// ValidateAndSetDefaults prepares options for the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetBuildDefaults()
	return o.ValidateForRender()
}

// Aspect returns the frame aspect ratio used for the scene camera.
func (o *Options) Aspect() float64 {
	if o.Width > 0 && o.Height > 0 {
		return o.Width / o.Height
	}
	return scene.DefaultAspect
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Only the options a format actually reads go into its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.View = o.View
		k.Width = o.Width
		k.Height = o.Height
		k.Labels = o.Labels
		k.Background = o.Background
		if format != FormatPNG {
			k.Title = o.Title
		}
	case FormatHTML:
		k.Background = o.Background
		k.Title = o.Title
		k.APIBase = o.APIBase
	case FormatSTL:
		k.MeshCells = o.MeshCells
		k.FloorSlab = o.FloorSlab
	}
	return k
}
