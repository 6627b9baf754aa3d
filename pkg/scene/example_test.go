package scene_test

import (
	"fmt"

	"github.com/matzehuels/stowage/pkg/scene"
)

func ExamplePackItems() {
	for _, it := range scene.PackItems(scene.DefaultParams()) {
		fmt.Printf("%s col=%d x=%.3f y=%.3f\n", it.ID, it.Column, it.Position.X, it.Position.Y)
	}
	// Output:
	// item-0 col=0 x=-2.550 y=-1.045
	// item-1 col=0 x=-2.550 y=-0.445
	// item-2 col=0 x=-2.550 y=0.155
	// item-3 col=0 x=-2.550 y=0.755
	// item-4 col=1 x=-1.450 y=-1.045
	// item-5 col=1 x=-1.450 y=-0.445
	// item-6 col=1 x=-1.450 y=0.155
	// item-7 col=1 x=-1.450 y=0.755
	// item-8 col=2 x=-0.350 y=-1.045
	// item-9 col=2 x=-0.350 y=-0.445
}

func ExampleStage() {
	p := scene.DefaultParams()
	st := scene.NewStage(p, 16.0/9.0)

	p.NumItems = 4
	st.RebuildItems(p)
	st.Resize(800, 600)

	snap := st.Snapshot()
	fmt.Println("items:", len(snap.Items))
	fmt.Println("items revision:", st.Revision(scene.CategoryItems))
	fmt.Println("floor revision:", st.Revision(scene.CategoryFloor))
	fmt.Printf("aspect: %.3f\n", snap.Camera.Aspect)
	// Output:
	// items: 4
	// items revision: 2
	// floor revision: 1
	// aspect: 1.333
}
