package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or extent in scene space. Y is up; the container's
// length runs along X and its width along Z.
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// R3 converts v to a gonum vector.
func (v Vec3) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// FromR3 converts a gonum vector.
func FromR3(v r3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Add returns v+u.
func (v Vec3) Add(u Vec3) Vec3 { return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }

// Scale returns v*f.
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxAt returns the box of the given size centered on center.
// Negative extents are normalized so Min <= Max on every axis.
func BoxAt(center, size Vec3) Box {
	h := size.Scale(0.5)
	b := Box{
		Min: Vec3{center.X - h.X, center.Y - h.Y, center.Z - h.Z},
		Max: Vec3{center.X + h.X, center.Y + h.Y, center.Z + h.Z},
	}
	b.Min.X, b.Max.X = math.Min(b.Min.X, b.Max.X), math.Max(b.Min.X, b.Max.X)
	b.Min.Y, b.Max.Y = math.Min(b.Min.Y, b.Max.Y), math.Max(b.Min.Y, b.Max.Y)
	b.Min.Z, b.Max.Z = math.Min(b.Min.Z, b.Max.Z), math.Max(b.Min.Z, b.Max.Z)
	return b
}

// Intersects reports whether b and o overlap with positive volume.
func (b Box) Intersects(o Box) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Corners returns the eight corners of the box. Bit 0 of the index
// selects Max.X, bit 1 Max.Y and bit 2 Max.Z.
func (b Box) Corners() [8]Vec3 {
	var c [8]Vec3
	for i := range c {
		c[i] = b.Min
		if i&1 != 0 {
			c[i].X = b.Max.X
		}
		if i&2 != 0 {
			c[i].Y = b.Max.Y
		}
		if i&4 != 0 {
			c[i].Z = b.Max.Z
		}
	}
	return c
}

// BoxEdges lists the twelve edges of a box as pairs of corner indices
// (see [Box.Corners]). Two corners share an edge when they differ in
// exactly one bit.
var BoxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// BoxFaces lists the six faces of a box as corner indices in winding order.
var BoxFaces = [6][4]int{
	{0, 2, 6, 4}, // -X
	{1, 5, 7, 3}, // +X
	{0, 4, 5, 1}, // -Y
	{2, 3, 7, 6}, // +Y
	{0, 1, 3, 2}, // -Z
	{4, 6, 7, 5}, // +Z
}
