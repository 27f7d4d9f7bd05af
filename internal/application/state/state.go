package state

// Lifecycle is the state of the scene controller
type Lifecycle int

const (
	NoScene Lifecycle = iota
	SceneActive
)

// String returns the string representation of the lifecycle state
func (s Lifecycle) String() string {
	switch s {
	case NoScene:
		return "NoScene"
	case SceneActive:
		return "SceneActive"
	default:
		return "Unknown"
	}
}
