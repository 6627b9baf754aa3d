package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Category names one independently replaceable group of primitives.
type Category string

const (
	CategoryContainer Category = "container"
	CategoryDoors     Category = "doors"
	CategoryFloor     Category = "floor"
	CategoryItems     Category = "items"
)

// Categories lists every category in build order.
var Categories = []Category{CategoryContainer, CategoryDoors, CategoryFloor, CategoryItems}

// DoorSide identifies one of the two doors.
type DoorSide string

const (
	DoorLeft  DoorSide = "left"  // Z = -W/3
	DoorRight DoorSide = "right" // Z = +W/3
)

// Outline is the container box, drawn as edges only.
type Outline struct {
	ID       string `json:"id"`
	Size     Vec3   `json:"size"` // (L, H, W)
	Position Vec3   `json:"position"`
	Color    string `json:"color"`
}

// Bounds returns the axis-aligned extent of the outline.
func (o Outline) Bounds() Box { return BoxAt(o.Position, o.Size) }

// Door is a thin slab rotated about the vertical axis through its center.
type Door struct {
	ID        string   `json:"id"`
	Side      DoorSide `json:"side"`
	Size      Vec3     `json:"size"` // (thickness, H, W/2)
	Position  Vec3     `json:"position"`
	RotationY float64  `json:"rotation_y"`
	Color     string   `json:"color"`
}

// Corners returns the eight corners of the rotated slab in scene space,
// indexed like [Box.Corners].
func (d Door) Corners() [8]Vec3 {
	local := BoxAt(Vec3{}, d.Size).Corners()
	rot := r3.NewRotation(d.RotationY, r3.Vec{Y: 1})
	var out [8]Vec3
	for i, c := range local {
		out[i] = FromR3(r3.Add(rot.Rotate(c.R3()), d.Position.R3()))
	}
	return out
}

// Bounds returns the axis-aligned box around the rotated slab.
func (d Door) Bounds() Box {
	c := d.Corners()
	b := Box{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		b = b.Union(Box{Min: p, Max: p})
	}
	return b
}

// Floor is the subdivided plane under the cargo, drawn as a wireframe.
type Floor struct {
	ID        string  `json:"id"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	SegmentsX int     `json:"segments_x"`
	SegmentsZ int     `json:"segments_z"`
	Position  Vec3    `json:"position"`
	RotationX float64 `json:"rotation_x"`
	Color     string  `json:"color"`
	Opacity   float64 `json:"opacity"`
}

// GridLines returns the floor's grid as line segments in scene space:
// SegmentsX+1 lines across the width and SegmentsZ+1 lines along the
// length.
func (f Floor) GridLines() [][2]Vec3 {
	y := f.Position.Y
	x0, x1 := f.Position.X-f.Length/2, f.Position.X+f.Length/2
	z0, z1 := f.Position.Z-f.Width/2, f.Position.Z+f.Width/2

	lines := make([][2]Vec3, 0, f.SegmentsX+f.SegmentsZ+2)
	for i := 0; i <= f.SegmentsX; i++ {
		x := x0 + (x1-x0)*float64(i)/float64(f.SegmentsX)
		lines = append(lines, [2]Vec3{{x, y, z0}, {x, y, z1}})
	}
	for j := 0; j <= f.SegmentsZ; j++ {
		z := z0 + (z1-z0)*float64(j)/float64(f.SegmentsZ)
		lines = append(lines, [2]Vec3{{x0, y, z}, {x1, y, z}})
	}
	return lines
}

// Item is one packed cargo box.
type Item struct {
	ID       string `json:"id"`
	Index    int    `json:"index"`
	Column   int    `json:"column"`
	Row      int    `json:"row"`
	Size     Vec3   `json:"size"` // (iw, ih, iw)
	Position Vec3   `json:"position"`
	Color    string `json:"color"`
}

// Bounds returns the axis-aligned extent of the item.
func (it Item) Bounds() Box { return BoxAt(it.Position, it.Size) }

// Camera is the perspective camera of the interactive view.
type Camera struct {
	FOV      float64 `json:"fov"` // vertical, degrees
	Aspect   float64 `json:"aspect"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
	Position Vec3    `json:"position"`
}

// Scene is a complete layout.
type Scene struct {
	Params    Params  `json:"params"`
	Container Outline `json:"container"`
	Doors     []Door  `json:"doors"`
	Floor     Floor   `json:"floor"`
	Items     []Item  `json:"items"`
	Camera    Camera  `json:"camera"`
}

// Bounds returns the box enclosing every primitive of the scene.
func (s Scene) Bounds() Box {
	b := s.Container.Bounds()
	for _, d := range s.Doors {
		b = b.Union(d.Bounds())
	}
	for _, it := range s.Items {
		b = b.Union(it.Bounds())
	}
	return b
}

// Columns groups items by column index, in order.
func (s Scene) Columns() [][]Item {
	var cols [][]Item
	for _, it := range s.Items {
		for len(cols) <= it.Column {
			cols = append(cols, nil)
		}
		cols[it.Column] = append(cols[it.Column], it)
	}
	return cols
}
