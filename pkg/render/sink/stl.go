package sink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/stowage/pkg/scene"
)

// DefaultMeshCells is the marching-cubes resolution along the longest axis.
const DefaultMeshCells = 200

// STLOption configures STL rendering.
type STLOption func(*stlRenderer)

type stlRenderer struct {
	cells     int
	withFloor bool
}

// WithMeshCells sets the marching-cubes resolution.
func WithMeshCells(n int) STLOption { return func(r *stlRenderer) { r.cells = n } }

// WithFloorSlab adds a thin slab under the cargo matching the floor grid.
func WithFloorSlab() STLOption { return func(r *stlRenderer) { r.withFloor = true } }

// floorSlabThickness is the depth of the optional floor slab, in meters.
const floorSlabThickness = 0.02

// RenderSTL tessellates the packed cargo into a binary STL. Doors are
// left out: at 1mm they are thinner than any useful cell size. A scene
// without items yields a valid STL with no triangles.
func RenderSTL(s scene.Scene, opts ...STLOption) ([]byte, error) {
	r := stlRenderer{cells: DefaultMeshCells}
	for _, opt := range opts {
		opt(&r)
	}
	if r.cells <= 0 {
		return nil, fmt.Errorf("invalid mesh resolution %d", r.cells)
	}

	solid, err := cargoSolid(s, r.withFloor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if solid == nil {
		writeSTLHeader(&buf, "stowage cargo", 0)
		return buf.Bytes(), nil
	}

	tris := render.ToTriangles(solid, render.NewMarchingCubesUniform(r.cells))
	buf.Grow(84 + 50*len(tris))
	writeSTLHeader(&buf, "stowage cargo", len(tris))
	for _, t := range tris {
		writeSTLTriangle(&buf, t.Normal(), t[0], t[1], t[2])
	}
	return buf.Bytes(), nil
}

func cargoSolid(s scene.Scene, withFloor bool) (sdf.SDF3, error) {
	var solid sdf.SDF3
	add := func(center, size scene.Vec3) error {
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return nil
		}
		box, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, 0)
		if err != nil {
			return fmt.Errorf("box %v: %w", size, err)
		}
		box = sdf.Transform3D(box, sdf.Translate3d(v3.Vec{X: center.X, Y: center.Y, Z: center.Z}))
		if solid == nil {
			solid = box
		} else {
			solid = sdf.Union3D(solid, box)
		}
		return nil
	}

	for _, it := range s.Items {
		if err := add(it.Position, it.Size); err != nil {
			return nil, fmt.Errorf("item %s: %w", it.ID, err)
		}
	}
	if withFloor {
		f := s.Floor
		center := scene.Vec3{X: f.Position.X, Y: f.Position.Y - floorSlabThickness/2, Z: f.Position.Z}
		if err := add(center, scene.Vec3{X: f.Length, Y: floorSlabThickness, Z: f.Width}); err != nil {
			return nil, fmt.Errorf("floor: %w", err)
		}
	}
	return solid, nil
}

// The binary STL layout is an 80-byte header, a little-endian uint32
// triangle count, then 50 bytes per triangle: normal, three vertices as
// float32 triples and a zero attribute count.

func writeSTLHeader(buf *bytes.Buffer, name string, count int) {
	var header [80]byte
	copy(header[:], name)
	buf.Write(header[:])
	_ = binary.Write(buf, binary.LittleEndian, uint32(count))
}

func writeSTLTriangle(buf *bytes.Buffer, n, a, b, c v3.Vec) {
	rec := [12]float32{
		f32(n.X), f32(n.Y), f32(n.Z),
		f32(a.X), f32(a.Y), f32(a.Z),
		f32(b.X), f32(b.Y), f32(b.Z),
		f32(c.X), f32(c.Y), f32(c.Z),
	}
	_ = binary.Write(buf, binary.LittleEndian, rec)
	buf.Write([]byte{0, 0})
}

func f32(v float64) float32 {
	if math.IsNaN(v) {
		return 0
	}
	return float32(v)
}
