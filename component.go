package orrery

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Component is a named unit of behaviour attached to a node. A node holds at
// most one component per name.
type Component interface {
	Name() string
	Start()
	Stop()
	Update(dt float64)
}

// Initializer is implemented by components that bind to an engine-side
// object. Initialize is called once, before Start, when the owning engine
// has an EngineContext.
type Initializer interface {
	Initialize(ctx EngineContext) error
}

// TransformFollower is implemented by components that mirror their node's
// world transform. FollowTransform is called after every world recompute of
// the node and once when the component is attached.
type TransformFollower interface {
	FollowTransform(world Transform)
}

// PropertySetter is implemented by components whose properties can be set by
// name, which is how set_component_property reaches them.
type PropertySetter interface {
	SetProperty(name string, v any) error
}

// --- Registry on Node ---

// AddComponent attaches c under c.Name(). A component already occupying that
// name is stopped and replaced. When the engine has an EngineContext and c is
// an Initializer, c is initialized first; a failed initialization is logged
// and leaves c attached but unbound. c is then started.
func (n *Node) AddComponent(c Component) {
	if c == nil {
		panic("orrery: cannot add nil component")
	}
	n.checkLive("AddComponent")
	name := c.Name()
	if name == "" {
		panic("orrery: component has empty name")
	}
	if prev, ok := n.components[name]; ok {
		prev.Stop()
	} else {
		n.componentOrder = append(n.componentOrder, name)
	}
	n.components[name] = c

	if init, ok := c.(Initializer); ok && n.owner.ctx != nil {
		if err := init.Initialize(n.owner.ctx); err != nil {
			n.owner.log.Warn("component initialization failed",
				zapNode(n), zap.String("component", name), zap.Error(err))
		}
	}
	c.Start()
	if f, ok := c.(TransformFollower); ok {
		f.FollowTransform(n.world)
	}
	n.owner.graphChanged(SceneEvent{Type: EventComponentAdded, Node: n.ID, Name: n.Name, Component: name})
}

// GetComponent returns the component registered under name, or nil.
func (n *Node) GetComponent(name string) Component {
	return n.components[name]
}

// HasComponent reports whether a component is registered under name.
func (n *Node) HasComponent(name string) bool {
	_, ok := n.components[name]
	return ok
}

// RemoveComponent stops and detaches the component registered under name.
// The engine-side object, if any, is left to the engine. It reports whether a
// component was removed.
func (n *Node) RemoveComponent(name string) bool {
	n.checkLive("RemoveComponent")
	c, ok := n.components[name]
	if !ok {
		return false
	}
	c.Stop()
	delete(n.components, name)
	if i := slices.Index(n.componentOrder, name); i >= 0 {
		n.componentOrder = slices.Delete(n.componentOrder, i, i+1)
	}
	n.owner.graphChanged(SceneEvent{Type: EventComponentRemoved, Node: n.ID, Name: n.Name, Component: name})
	return true
}

// ComponentNames returns the component names in insertion order.
func (n *Node) ComponentNames() []string {
	return slices.Clone(n.componentOrder)
}

// SetComponentProperty sets a property on the named component by name.
func (n *Node) SetComponentProperty(component, property string, v any) error {
	c, ok := n.components[component]
	if !ok {
		return fmt.Errorf("%w: %s has no component %q", ErrUnknownComponent, n, component)
	}
	ps, ok := c.(PropertySetter)
	if !ok {
		return fmt.Errorf("%w: component %q has no settable properties", ErrUnknownProperty, component)
	}
	return ps.SetProperty(property, v)
}

func (n *Node) notifyFollowers() {
	for _, name := range n.componentOrder {
		if f, ok := n.components[name].(TransformFollower); ok {
			f.FollowTransform(n.world)
		}
	}
}

// --- Kinds ---

// ComponentFactory builds a component from named parameters, as carried by
// an add_component call.
type ComponentFactory func(params map[string]any) (Component, error)

// ComponentKinds maps component kind names to factories. add_component looks
// kinds up here, which lets recorded and persisted logs recreate components.
type ComponentKinds struct {
	factories map[string]ComponentFactory
	order     []string
}

// NewComponentKinds returns an empty registry.
func NewComponentKinds() *ComponentKinds {
	return &ComponentKinds{factories: make(map[string]ComponentFactory)}
}

// DefaultComponentKinds returns a registry holding every built-in component.
func DefaultComponentKinds() *ComponentKinds {
	k := NewComponentKinds()
	k.Register("Planet", planetFactory)
	k.Register("Sun", sunFactory)
	k.Register("Constellation", constellationFactory)
	k.Register("Stars", starsFactory)
	k.Register("Text", textFactory)
	k.Register("Asteroid", smallBodyFactory(KindAsteroid))
	k.Register("Comet", smallBodyFactory(KindComet))
	k.Register("Satellite", smallBodyFactory(KindSatellite))
	k.Register("Clock", clockFactory)
	k.Register("Tags", tagsFactory)
	return k
}

// Register adds a factory. Panics if kind is already registered.
func (k *ComponentKinds) Register(kind string, f ComponentFactory) {
	if f == nil {
		panic("orrery: nil component factory")
	}
	if _, dup := k.factories[kind]; dup {
		panic(fmt.Sprintf("orrery: component kind %q already registered", kind))
	}
	k.factories[kind] = f
	k.order = append(k.order, kind)
}

// New builds a component of the given kind.
func (k *ComponentKinds) New(kind string, params map[string]any) (Component, error) {
	f, ok := k.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentKind, kind)
	}
	return f(normalizeKwargs(params))
}

// Kinds returns the registered kind names in registration order.
func (k *ComponentKinds) Kinds() []string {
	return slices.Clone(k.order)
}
