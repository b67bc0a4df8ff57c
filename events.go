package orrery

// EventSink is the interface for optional ECS integration.
// When set on an Engine, scene graph changes are forwarded to the sink.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// SceneEventType identifies what changed in the scene graph.
type SceneEventType uint8

const (
	EventObjectCreated SceneEventType = iota
	EventObjectDestroyed
	EventReparented
	EventComponentAdded
	EventComponentRemoved
)

func (t SceneEventType) String() string {
	switch t {
	case EventObjectCreated:
		return "object_created"
	case EventObjectDestroyed:
		return "object_destroyed"
	case EventReparented:
		return "reparented"
	case EventComponentAdded:
		return "component_added"
	case EventComponentRemoved:
		return "component_removed"
	}
	return "unknown"
}

// SceneEvent carries one scene graph change for the ECS bridge.
type SceneEvent struct {
	Type SceneEventType
	Node NodeID
	Name string
	// Parent is the new parent for EventReparented, zero when detached.
	Parent NodeID
	// Component is set for component events.
	Component string
}
