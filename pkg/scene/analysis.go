package scene

import (
	"fmt"
	"math"
)

// maxSimulatedRows bounds the row simulation in ColumnCapacity. Past it
// the closed form is used.
const maxSimulatedRows = 100000

// Report describes how the packed items relate to the container. It is
// informational only.
type Report struct {
	Columns        int   `json:"columns"`
	ColumnCapacity int   `json:"column_capacity"` // 0 when unbounded
	PerColumn      []int `json:"per_column"`

	ItemsOutside        int  `json:"items_outside"` // past +L/2
	ExceedsLength       bool `json:"exceeds_length"`
	ExceedsWidth        bool `json:"exceeds_width"`
	TallerThanContainer bool `json:"taller_than_container"`
	ItemsInDoorSwing    int  `json:"items_in_door_swing"`

	Warnings []string `json:"warnings,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// Analyze inspects a built scene.
func Analyze(s Scene) Report {
	p := s.Params
	r := Report{ColumnCapacity: ColumnCapacity(p)}

	for _, col := range s.Columns() {
		r.PerColumn = append(r.PerColumn, len(col))
	}
	r.Columns = len(r.PerColumn)

	var swing []Box
	for _, d := range s.Doors {
		swing = append(swing, d.Bounds())
	}

	end := p.Length / 2
	for _, it := range s.Items {
		b := it.Bounds()
		if b.Max.X > end {
			r.ItemsOutside++
		}
		for _, sb := range swing {
			if b.Intersects(sb) {
				r.ItemsInDoorSwing++
				break
			}
		}
	}
	r.ExceedsLength = r.ItemsOutside > 0
	r.ExceedsWidth = len(s.Items) > 0 && p.ItemWidth > p.Width
	r.TallerThanContainer = len(s.Items) > 0 && p.ItemHeight > p.Height

	if r.ExceedsLength {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d of %d items extend past the container end", r.ItemsOutside, len(s.Items)))
	}
	if r.ExceedsWidth {
		r.Warnings = append(r.Warnings, fmt.Sprintf("item width %.3g exceeds container width %.3g", p.ItemWidth, p.Width))
	}
	if r.TallerThanContainer {
		r.Warnings = append(r.Warnings, fmt.Sprintf("item height %.3g exceeds container height %.3g; one item per column", p.ItemHeight, p.Height))
	}
	if r.ItemsInDoorSwing > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d items intersect the door swing", r.ItemsInDoorSwing))
	}
	r.Notes = append(r.Notes, fmt.Sprintf("doors are offset by a fixed %.1fm past the container end", DoorSwingOffset))
	return r
}

// ColumnCapacity returns how many items fit in one column before the
// packer starts a new one. It repeats the packer's arithmetic so the
// answer matches its floating-point behavior. It returns 0 when a column
// never fills (a non-positive step) and 1 when the first item already
// overflows.
func ColumnCapacity(p Params) int {
	ih := p.ItemHeight
	step := ih + p.Gap
	y0 := -p.Height/2 + ih/2
	top := p.Height / 2

	if step <= 0 {
		if y0+step+ih/2 > top {
			return 1
		}
		return 0
	}

	y := y0
	for n := 1; n <= maxSimulatedRows; n++ {
		y += step
		if y+ih/2 > top {
			return n
		}
	}
	return int(math.Floor((top-ih/2-y0)/step)) + 1
}
