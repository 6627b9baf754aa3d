package scene

import (
	"fmt"
	"math"
)

// Door and floor constants. They do not scale with the container.
const (
	DoorThickness = 0.001

	// DoorSwingOffset pushes both doors past the container end along +X.
	// It is a fixed distance and does not follow L, W or H; Analyze
	// reports it as a notice.
	DoorSwingOffset = 0.8

	FloorSegmentsX = 15
	FloorSegmentsZ = 10
)

// DoorAngle is the opening angle of each door about the Y axis.
var DoorAngle = math.Pi / 4.3

// Camera defaults for the interactive view.
const (
	CameraFOV     = 75
	CameraNear    = 0.1
	CameraFar     = 1000
	CameraDist    = 10
	DefaultAspect = 4.0 / 3.0
)

// Build lays out the complete scene for p. It is pure: equal params give
// equal scenes.
func Build(p Params) Scene {
	return Scene{
		Params:    p,
		Container: BuildContainer(p),
		Doors:     BuildDoors(p),
		Floor:     BuildFloor(p),
		Items:     PackItems(p),
		Camera:    NewCamera(DefaultAspect),
	}
}

// BuildContainer returns the edges-only box of size (L, H, W) centered
// on the origin.
func BuildContainer(p Params) Outline {
	return Outline{
		ID:    "container",
		Size:  Vec3{p.Length, p.Height, p.Width},
		Color: p.ContainerColor,
	}
}

// BuildDoors returns the left and right doors, both swung open at the
// +X end of the container.
func BuildDoors(p Params) []Door {
	size := Vec3{DoorThickness, p.Height, p.Width / 2}
	x := p.Length/2 - DoorThickness + DoorSwingOffset/2
	return []Door{
		{
			ID:        "door-left",
			Side:      DoorLeft,
			Size:      size,
			Position:  Vec3{x, 0, -p.Width / 3},
			RotationY: DoorAngle,
			Color:     p.DoorColor,
		},
		{
			ID:        "door-right",
			Side:      DoorRight,
			Size:      size,
			Position:  Vec3{x, 0, p.Width / 3},
			RotationY: -DoorAngle,
			Color:     p.DoorColor,
		},
	}
}

// BuildFloor returns the floor grid. The subdivision is fixed at 15×10
// whatever the container size.
func BuildFloor(p Params) Floor {
	return Floor{
		ID:        "floor",
		Length:    p.Length,
		Width:     p.Width,
		SegmentsX: FloorSegmentsX,
		SegmentsZ: FloorSegmentsZ,
		Position:  Vec3{0, -p.Height / 2, 0},
		RotationX: -math.Pi / 2,
		Color:     p.FloorColor,
		Opacity:   p.FloorOpacity,
	}
}

// PackItems places NumItems boxes column by column, bottom to top,
// starting at the -X, -Z corner of the floor. A column ends when the next
// item's top would rise above the ceiling. The first item is always
// placed, and nothing stops columns from running past the container end.
func PackItems(p Params) []Item {
	if p.NumItems <= 0 {
		return nil
	}

	iw, ih, gap := p.ItemWidth, p.ItemHeight, p.Gap
	startX := -p.Length/2 + iw/2
	startY := -p.Height/2 + ih/2
	startZ := -p.Width/2 + iw/2

	items := make([]Item, 0, p.NumItems)
	x, y := startX, startY
	col, row := 0, 0
	for i := 0; i < p.NumItems; i++ {
		items = append(items, Item{
			ID:       fmt.Sprintf("item-%d", i),
			Index:    i,
			Column:   col,
			Row:      row,
			Size:     Vec3{iw, ih, iw},
			Position: Vec3{x, y, startZ},
			Color:    p.ItemColor,
		})

		y += ih + gap
		row++
		if y+ih/2 > p.Height/2 {
			y = startY
			x += iw + gap
			col++
			row = 0
		}
	}
	return items
}

// NewCamera returns the default perspective camera with the given aspect.
func NewCamera(aspect float64) Camera {
	return Camera{
		FOV:      CameraFOV,
		Aspect:   aspect,
		Near:     CameraNear,
		Far:      CameraFar,
		Position: Vec3{0, 0, CameraDist},
	}
}
