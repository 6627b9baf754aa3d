package scene

// Node is one attached primitive in the stage, as seen by scene-graph
// consumers.
type Node struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Revision int      `json:"revision"`
}

// RenderFunc is called after every change to the stage.
type RenderFunc func(Scene)

// Stage holds the currently attached primitives of each category and
// replaces them on rebuild. Each category has its own revision counter.
//
// A Stage is not safe for concurrent use.
type Stage struct {
	params Params

	container *Outline
	doors     []Door
	floor     *Floor
	items     []Item
	camera    Camera

	revisions map[Category]int
	renders   int
	onRender  RenderFunc
}

// NewStage builds every category from p and renders once.
func NewStage(p Params, aspect float64) *Stage {
	s := &Stage{
		params:    p,
		camera:    NewCamera(aspect),
		revisions: make(map[Category]int, len(Categories)),
	}
	s.attachAll()
	s.render()
	return s
}

// OnRender registers fn to be called after every render. Pass nil to
// unregister.
func (s *Stage) OnRender(fn RenderFunc) { s.onRender = fn }

// Params returns the parameters the stage was last built from.
func (s *Stage) Params() Params { return s.params }

// Revision returns how many times a category has been attached.
func (s *Stage) Revision(c Category) int { return s.revisions[c] }

// Renders returns how many times the stage has rendered.
func (s *Stage) Renders() int { return s.renders }

// Camera returns the current camera.
func (s *Stage) Camera() Camera { return s.camera }

// RebuildContainer replaces the outline.
func (s *Stage) RebuildContainer(p Params) {
	s.params = p
	s.detach(CategoryContainer)
	s.attach(CategoryContainer)
	s.render()
}

// RebuildDoors replaces both doors.
func (s *Stage) RebuildDoors(p Params) {
	s.params = p
	s.detach(CategoryDoors)
	s.attach(CategoryDoors)
	s.render()
}

// RebuildFloor replaces the floor grid.
func (s *Stage) RebuildFloor(p Params) {
	s.params = p
	s.detach(CategoryFloor)
	s.attach(CategoryFloor)
	s.render()
}

// RebuildItems replaces the whole item group.
func (s *Stage) RebuildItems(p Params) {
	s.params = p
	s.detach(CategoryItems)
	s.attach(CategoryItems)
	s.render()
}

// Rebuild replaces every category, in build order, and renders once.
// Render callbacks never see a mix of old and new categories.
func (s *Stage) Rebuild(p Params) {
	s.params = p
	for _, c := range Categories {
		s.detach(c)
		s.attach(c)
	}
	s.render()
}

// Resize recomputes the camera aspect ratio from a viewport size and
// renders. Geometry is left alone. A non-positive height keeps the
// previous aspect.
func (s *Stage) Resize(width, height int) {
	if height > 0 {
		s.camera.Aspect = float64(width) / float64(height)
	}
	s.render()
}

// Snapshot returns a copy of the current scene.
func (s *Stage) Snapshot() Scene {
	sc := Scene{
		Params: s.params,
		Camera: s.camera,
	}
	if s.container != nil {
		sc.Container = *s.container
	}
	if s.floor != nil {
		sc.Floor = *s.floor
	}
	sc.Doors = append([]Door(nil), s.doors...)
	sc.Items = append([]Item(nil), s.items...)
	return sc
}

// Nodes lists the attached primitives in build order.
func (s *Stage) Nodes() []Node {
	var nodes []Node
	if s.container != nil {
		nodes = append(nodes, Node{s.container.ID, CategoryContainer, s.revisions[CategoryContainer]})
	}
	for _, d := range s.doors {
		nodes = append(nodes, Node{d.ID, CategoryDoors, s.revisions[CategoryDoors]})
	}
	if s.floor != nil {
		nodes = append(nodes, Node{s.floor.ID, CategoryFloor, s.revisions[CategoryFloor]})
	}
	for _, it := range s.items {
		nodes = append(nodes, Node{it.ID, CategoryItems, s.revisions[CategoryItems]})
	}
	return nodes
}

func (s *Stage) attachAll() {
	for _, c := range Categories {
		s.attach(c)
	}
}

func (s *Stage) detach(c Category) {
	switch c {
	case CategoryContainer:
		s.container = nil
	case CategoryDoors:
		s.doors = nil
	case CategoryFloor:
		s.floor = nil
	case CategoryItems:
		s.items = nil
	}
}

func (s *Stage) attach(c Category) {
	switch c {
	case CategoryContainer:
		o := BuildContainer(s.params)
		s.container = &o
	case CategoryDoors:
		s.doors = BuildDoors(s.params)
	case CategoryFloor:
		f := BuildFloor(s.params)
		s.floor = &f
	case CategoryItems:
		s.items = PackItems(s.params)
	}
	s.revisions[c]++
}

func (s *Stage) render() {
	s.renders++
	if s.onRender != nil {
		s.onRender(s.Snapshot())
	}
}

// Nodes lists the primitives of a built scene in build order, each at
// revision 1.
func (sc Scene) Nodes() []Node {
	nodes := []Node{{sc.Container.ID, CategoryContainer, 1}}
	for _, d := range sc.Doors {
		nodes = append(nodes, Node{d.ID, CategoryDoors, 1})
	}
	nodes = append(nodes, Node{sc.Floor.ID, CategoryFloor, 1})
	for _, it := range sc.Items {
		nodes = append(nodes, Node{it.ID, CategoryItems, 1})
	}
	return nodes
}
