package component

// Mover steps an entity toward its waypoint at Speed pixels per frame.
type Mover struct {
	Speed float64
}

var MoverComponent = NewComponent[Mover]()

// Named lets systems find an entity by its prefab name.
type Named struct {
	Name string
}

var NamedComponent = NewComponent[Named]()
