// Package projection flattens a scene into a 2D line drawing.
//
// The projection is orthographic, defined by a yaw about the vertical
// axis followed by a pitch about the horizontal screen axis. Box
// primitives become their twelve edges, the floor grid its lines and
// cargo items additionally become filled faces sorted back to front.
// Output coordinates are in pixels with Y pointing down.
package projection

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stowage/pkg/scene"
)

// View selects a camera direction.
type View string

const (
	ViewIso   View = "iso"
	ViewFront View = "front"
	ViewSide  View = "side"
	ViewTop   View = "top"
)

// Views lists the supported views.
var Views = []View{ViewIso, ViewFront, ViewSide, ViewTop}

// DefaultMargin is the blank border around the drawing, in pixels.
const DefaultMargin = 20.0

type angles struct{ yaw, pitch float64 }

var viewAngles = map[View]angles{
	ViewIso:   {-math.Pi / 4, math.Atan(1 / math.Sqrt2)},
	ViewFront: {0, 0},
	ViewSide:  {-math.Pi / 2, 0},
	ViewTop:   {0, math.Pi / 2},
}

// Layer tags drawing elements with the scene category they came from.
type Layer = scene.Category

// Point is a screen-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a stroked line.
type Segment struct {
	A, B    Point
	Layer   Layer
	Color   string
	Opacity float64
}

// Polygon is a filled face.
type Polygon struct {
	Points  []Point
	Layer   Layer
	Color   string
	Opacity float64
	Depth   float64 // larger is nearer
}

// Label is text anchored at a point.
type Label struct {
	At   Point
	Text string
}

// Drawing is a projected scene. Polygons are ordered back to front.
type Drawing struct {
	Width    float64
	Height   float64
	View     View
	Segments []Segment
	Polygons []Polygon
	Labels   []Label
}

// Options controls Project.
type Options struct {
	View   View
	Width  float64
	Height float64
	Margin float64
	Labels bool // number each item
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	v := View(s)
	if _, ok := viewAngles[v]; !ok {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return v, nil
}

type camera struct {
	yaw, pitch r3.Rotation
}

func newCamera(v View) camera {
	a := viewAngles[v]
	return camera{
		yaw:   r3.NewRotation(a.yaw, r3.Vec{Y: 1}),
		pitch: r3.NewRotation(a.pitch, r3.Vec{X: 1}),
	}
}

// apply returns view-space coordinates; Z grows toward the viewer.
func (c camera) apply(p scene.Vec3) r3.Vec {
	return c.pitch.Rotate(c.yaw.Rotate(p.R3()))
}

// Project flattens s and fits it into a Width×Height frame.
func Project(s scene.Scene, opts Options) (Drawing, error) {
	if opts.View == "" {
		opts.View = ViewIso
	}
	if _, ok := viewAngles[opts.View]; !ok {
		return Drawing{}, fmt.Errorf("unknown view %q", opts.View)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return Drawing{}, fmt.Errorf("invalid frame %gx%g", opts.Width, opts.Height)
	}
	if opts.Margin == 0 {
		opts.Margin = DefaultMargin
	}

	cam := newCamera(opts.View)
	b := &builder{cam: cam}

	for _, l := range s.Floor.GridLines() {
		b.line(l[0], l[1], scene.CategoryFloor, s.Floor.Color, s.Floor.Opacity)
	}
	for _, it := range s.Items {
		corners := it.Bounds().Corners()
		for _, f := range scene.BoxFaces {
			b.face(corners, f, it.Color)
		}
	}
	b.box(s.Container.Bounds().Corners(), scene.CategoryContainer, s.Container.Color)
	for _, d := range s.Doors {
		b.box(d.Corners(), scene.CategoryDoors, d.Color)
	}
	if opts.Labels {
		for _, it := range s.Items {
			b.label(it.Position, fmt.Sprintf("%d", it.Index))
		}
	}

	sort.SliceStable(b.polys, func(i, j int) bool { return b.polys[i].depth < b.polys[j].depth })
	return b.fit(opts), nil
}

type viewPoint struct{ x, y float64 }

type rawSegment struct {
	a, b    viewPoint
	layer   Layer
	color   string
	opacity float64
}

type rawPolygon struct {
	pts   []viewPoint
	color string
	depth float64
}

type rawLabel struct {
	at   viewPoint
	text string
}

type builder struct {
	cam    camera
	segs   []rawSegment
	polys  []rawPolygon
	labels []rawLabel
}

func (b *builder) project(p scene.Vec3) (viewPoint, float64) {
	v := b.cam.apply(p)
	return viewPoint{v.X, v.Y}, v.Z
}

func (b *builder) line(p, q scene.Vec3, layer Layer, color string, opacity float64) {
	a, _ := b.project(p)
	c, _ := b.project(q)
	b.segs = append(b.segs, rawSegment{a, c, layer, color, opacity})
}

func (b *builder) box(c [8]scene.Vec3, layer Layer, color string) {
	for _, e := range scene.BoxEdges {
		b.line(c[e[0]], c[e[1]], layer, color, 1)
	}
}

func (b *builder) face(c [8]scene.Vec3, idx [4]int, color string) {
	pts := make([]viewPoint, 4)
	var depth float64
	for i, k := range idx {
		p, z := b.project(c[k])
		pts[i] = p
		depth += z / 4
	}
	b.polys = append(b.polys, rawPolygon{pts: pts, color: color, depth: depth})
}

func (b *builder) label(p scene.Vec3, text string) {
	at, _ := b.project(p)
	b.labels = append(b.labels, rawLabel{at, text})
}

// fit scales and translates view coordinates into the frame, flipping Y.
func (b *builder) fit(opts Options) Drawing {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(p viewPoint) {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	for _, s := range b.segs {
		grow(s.a)
		grow(s.b)
	}
	for _, p := range b.polys {
		for _, q := range p.pts {
			grow(q)
		}
	}

	d := Drawing{Width: opts.Width, Height: opts.Height, View: opts.View}
	if math.IsInf(minX, 1) {
		return d
	}

	availW := math.Max(opts.Width-2*opts.Margin, 1)
	availH := math.Max(opts.Height-2*opts.Margin, 1)
	spanX, spanY := maxX-minX, maxY-minY
	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(availW/spanX, availH/spanY)
	case spanX > 0:
		scale = availW / spanX
	case spanY > 0:
		scale = availH / spanY
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	to := func(p viewPoint) Point {
		return Point{
			X: opts.Width/2 + (p.x-cx)*scale,
			Y: opts.Height/2 - (p.y-cy)*scale,
		}
	}

	d.Segments = make([]Segment, len(b.segs))
	for i, s := range b.segs {
		d.Segments[i] = Segment{A: to(s.a), B: to(s.b), Layer: s.layer, Color: s.color, Opacity: s.opacity}
	}
	d.Polygons = make([]Polygon, len(b.polys))
	for i, p := range b.polys {
		pts := make([]Point, len(p.pts))
		for j, q := range p.pts {
			pts[j] = to(q)
		}
		d.Polygons[i] = Polygon{Points: pts, Layer: scene.CategoryItems, Color: p.color, Opacity: 1, Depth: p.depth}
	}
	for _, l := range b.labels {
		d.Labels = append(d.Labels, Label{At: to(l.at), Text: l.text})
	}
	return d
}

// LayerSegments returns the segments of one layer.
func (d Drawing) LayerSegments(l Layer) []Segment {
	var out []Segment
	for _, s := range d.Segments {
		if s.Layer == l {
			out = append(out, s)
		}
	}
	return out
}
