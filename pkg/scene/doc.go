// Package scene lays out the geometry of a shipping-container model.
//
// # Overview
//
// A scene is a pure function of a handful of scalar parameters: the
// container dimensions, the size and number of cargo items, the gap
// between items, and a few colors. [Build] turns a [Params] value into a
// [Scene] holding:
//
//   - the container outline: an axis-aligned box of size (L, H, W)
//     centered on the origin, drawn as edges only
//   - two door slabs swung open at the container's +X end
//   - a floor grid: an L×W plane with a fixed 15×10 subdivision
//   - the cargo items, packed column by column
//
// Rendering, camera projection and orbit controls for the interactive
// view are left to the browser viewer produced by the sink package.
//
// # Column-fill packing
//
// [PackItems] fills a column from the floor upward and advances to the
// next column once the next item would poke through the ceiling:
//
//	x, y := x0, y0
//	for each item:
//	    place at (x, y, z0)
//	    y += itemHeight + gap
//	    if y + itemHeight/2 > H/2:
//	        y = y0
//	        x += itemWidth + gap
//
// The first item is always placed. Columns are never checked against the
// container length, the doors or the container width, so items may end
// up outside the container. [Analyze] reports those cases without
// changing the geometry.
//
// # Stage
//
// A [Stage] is the scene graph the builder owns. Each category
// (container, doors, floor, items) is replaced independently: rebuilding
// one detaches its previous primitives and attaches new ones, leaving
// the others untouched. [Stage.Resize] only recomputes the camera aspect
// ratio.
//
// # Units
//
// Lengths are meters, angles are radians, colors are CSS hex strings.
package scene
