package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/stowage/pkg/config"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/scene"
)

// sceneFlags binds one flag per scene parameter. Only flags the user set
// override the config file.
type sceneFlags struct {
	p scene.Params
}

func (f *sceneFlags) register(fs *pflag.FlagSet) {
	d := scene.DefaultParams()
	fs.Float64Var(&f.p.Length, "length", d.Length, "container length (m)")
	fs.Float64Var(&f.p.Width, "container-width", d.Width, "container width (m)")
	fs.Float64Var(&f.p.Height, "container-height", d.Height, "container height (m)")
	fs.Float64Var(&f.p.ItemWidth, "item-width", d.ItemWidth, "item footprint edge (m)")
	fs.Float64Var(&f.p.ItemHeight, "item-height", d.ItemHeight, "item height (m)")
	fs.IntVarP(&f.p.NumItems, "items", "n", d.NumItems, "number of items")
	fs.Float64Var(&f.p.Gap, "gap", d.Gap, "spacing between items (m)")
	fs.StringVar(&f.p.ContainerColor, "container-color", d.ContainerColor, "container outline color")
	fs.StringVar(&f.p.DoorColor, "door-color", d.DoorColor, "door outline color")
	fs.StringVar(&f.p.FloorColor, "floor-color", d.FloorColor, "floor grid color")
	fs.Float64Var(&f.p.FloorOpacity, "floor-opacity", d.FloorOpacity, "floor grid opacity")
	fs.StringVar(&f.p.ItemColor, "item-color", d.ItemColor, "item outline color")
}

// apply overlays the changed flags on base.
func (f *sceneFlags) apply(fs *pflag.FlagSet, base scene.Params) scene.Params {
	p := base
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("length", func() { p.Length = f.p.Length })
	set("container-width", func() { p.Width = f.p.Width })
	set("container-height", func() { p.Height = f.p.Height })
	set("item-width", func() { p.ItemWidth = f.p.ItemWidth })
	set("item-height", func() { p.ItemHeight = f.p.ItemHeight })
	set("items", func() { p.NumItems = f.p.NumItems })
	set("gap", func() { p.Gap = f.p.Gap })
	set("container-color", func() { p.ContainerColor = f.p.ContainerColor })
	set("door-color", func() { p.DoorColor = f.p.DoorColor })
	set("floor-color", func() { p.FloorColor = f.p.FloorColor })
	set("floor-opacity", func() { p.FloorOpacity = f.p.FloorOpacity })
	set("item-color", func() { p.ItemColor = f.p.ItemColor })
	return p
}

// outputFlags binds the render flags shared by build, render and watch.
type outputFlags struct {
	formats    string
	view       string
	width      float64
	height     float64
	meshCells  int
	labels     bool
	floorSlab  bool
	background string
	title      string
	output     string
	refresh    bool
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s), comma-separated: json (default), html, svg, png, pdf, stl, xlsx, chart, graph")
	fs.StringVar(&f.view, "view", pipeline.DefaultView, "drawing view: iso, front, side, top")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "frame width (px)")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "frame height (px)")
	fs.IntVar(&f.meshCells, "mesh-cells", pipeline.DefaultMeshCells, "STL resolution along the longest axis")
	fs.BoolVar(&f.labels, "labels", false, "label items in drawings")
	fs.BoolVar(&f.floorSlab, "floor-slab", false, "add a floor slab under the STL cargo")
	fs.StringVar(&f.background, "background", "", "drawing background color")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVarP(&f.output, "output", "o", "", "output path stem; the format extension is appended")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options merges the render config with the changed flags.
func (f *outputFlags) options(fs *pflag.FlagSet, rc config.RenderConfig) pipeline.Options {
	opts := pipeline.Options{
		Formats:    rc.Formats,
		View:       rc.View,
		Width:      rc.Width,
		Height:     rc.Height,
		MeshCells:  rc.MeshCells,
		Labels:     rc.Labels,
		Background: rc.Background,
		FloorSlab:  rc.FloorSlab,
		Title:      f.title,
		Refresh:    f.refresh,
	}
	if fs.Changed("format") {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatJSON}
	}
	if fs.Changed("view") {
		opts.View = f.view
	}
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("mesh-cells") {
		opts.MeshCells = f.meshCells
	}
	if fs.Changed("floor-slab") {
		opts.FloorSlab = f.floorSlab
	}
	if fs.Changed("labels") {
		opts.Labels = f.labels
	}
	if fs.Changed("background") {
		opts.Background = f.background
	}
	return opts
}

// outputBase returns the output path stem.
func (f *outputFlags) outputBase(rc config.RenderConfig, fallback string) string {
	switch {
	case f.output != "":
		return f.output
	case rc.Output != "":
		return rc.Output
	default:
		return fallback
	}
}
