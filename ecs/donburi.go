package ecs

import (
	"slices"

	"github.com/phanxgames/orrery"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// SceneEventType is the Donburi event type for orrery scene graph events.
var SceneEventType = events.NewEventType[orrery.SceneEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink that publishes scene events to
// SceneEventType. Events are queued until ProcessEvents runs.
func NewDonburiSink(world donburi.World) orrery.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event orrery.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}

// NodeData mirrors one orrery node.
type NodeData struct {
	ID         orrery.NodeID
	Name       string
	Parent     orrery.NodeID
	Components []string
}

// Node is the component type carried by mirrored entities.
var Node = donburi.NewComponentType[NodeData]()

// Nodes matches every mirrored entity.
var Nodes = donburi.NewQuery(filter.Contains(Node))

// Mirror is an EventSink that keeps one entity per live node and also
// publishes every event to SceneEventType.
type Mirror struct {
	world    donburi.World
	entities map[orrery.NodeID]donburi.Entity
}

// NewMirror returns a mirror writing into world.
func NewMirror(world donburi.World) *Mirror {
	return &Mirror{world: world, entities: make(map[orrery.NodeID]donburi.Entity)}
}

// Entity returns the entity mirroring id.
func (m *Mirror) Entity(id orrery.NodeID) (donburi.Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// Data returns the mirrored state of id.
func (m *Mirror) Data(id orrery.NodeID) (NodeData, bool) {
	e, ok := m.entities[id]
	if !ok || !m.world.Valid(e) {
		return NodeData{}, false
	}
	return *Node.Get(m.world.Entry(e)), true
}

// EmitEvent implements orrery.EventSink.
func (m *Mirror) EmitEvent(ev orrery.SceneEvent) {
	switch ev.Type {
	case orrery.EventObjectCreated:
		e := m.world.Create(Node)
		Node.SetValue(m.world.Entry(e), NodeData{ID: ev.Node, Name: ev.Name})
		m.entities[ev.Node] = e
	case orrery.EventObjectDestroyed:
		if e, ok := m.entities[ev.Node]; ok {
			m.world.Remove(e)
			delete(m.entities, ev.Node)
		}
	default:
		m.update(ev)
	}
	SceneEventType.Publish(m.world, ev)
}

func (m *Mirror) update(ev orrery.SceneEvent) {
	e, ok := m.entities[ev.Node]
	if !ok || !m.world.Valid(e) {
		return
	}
	data := Node.Get(m.world.Entry(e))
	switch ev.Type {
	case orrery.EventReparented:
		data.Parent = ev.Parent
	case orrery.EventComponentAdded:
		if !slices.Contains(data.Components, ev.Component) {
			data.Components = append(data.Components, ev.Component)
		}
	case orrery.EventComponentRemoved:
		if i := slices.Index(data.Components, ev.Component); i >= 0 {
			data.Components = slices.Delete(data.Components, i, i+1)
		}
	}
}
