package component

// Transform is an entity's world position in pixels.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
