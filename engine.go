package orrery

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Config configures an Engine. The zero value gives a headless engine with a
// no-op logger, the built-in component kinds and no metrics.
type Config struct {
	// Logger receives graph, recording and replay diagnostics.
	Logger *zap.Logger
	// Backend resolves engine-side objects. nil runs headless: components
	// store properties but nothing is applied.
	Backend EngineContext
	// Components maps add_component kinds to factories.
	Components *ComponentKinds
	// Metrics is shared with recorders and replayers built by the caller.
	Metrics *Metrics
	// Events receives scene graph changes.
	Events EventSink
	// DebugMode enables tree depth and child count warnings.
	DebugMode bool
}

// Engine is one scene session. It owns every node it creates, the camera,
// the animator and the node id counter. All state lives here; separate
// engines are independent.
//
// Engine implements Facade: Invoke dispatches operations by name to the
// typed methods below.
type Engine struct {
	log     *zap.Logger
	ctx     EngineContext
	kinds   *ComponentKinds
	metrics *Metrics
	events  EventSink
	debug   bool

	nextID  NodeID
	objects []*Node
	index   map[NodeID]*Node

	camera   *Camera
	animator *Animator
	stars    Handle
}

// New creates an engine. When cfg.Backend is set, the camera is resolved
// immediately; a failure is logged and the camera runs unbound.
func New(cfg Config) *Engine {
	e := &Engine{
		log:      cfg.Logger,
		ctx:      cfg.Backend,
		kinds:    cfg.Components,
		metrics:  cfg.Metrics,
		events:   cfg.Events,
		debug:    cfg.DebugMode,
		nextID:   1,
		index:    make(map[NodeID]*Node),
		animator: newAnimator(),
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.kinds == nil {
		e.kinds = DefaultComponentKinds()
	}
	e.camera = newCamera(e.animator)
	if e.ctx != nil {
		h, err := e.ctx.ResolveCamera()
		if err == nil {
			err = e.camera.bind(h)
		}
		if err != nil {
			e.log.Warn("camera unavailable", zap.Error(err))
		}
	}
	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger { return e.log }

// Metrics returns the configured metrics, possibly nil.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Camera returns the engine camera.
func (e *Engine) Camera() *Camera { return e.camera }

// Animator returns the engine animator.
func (e *Engine) Animator() *Animator { return e.animator }

// ComponentKinds returns the add_component registry.
func (e *Engine) ComponentKinds() *ComponentKinds { return e.kinds }

// SetEventSink sets the optional ECS bridge.
func (e *Engine) SetEventSink(sink EventSink) { e.events = sink }

// SetDebugMode enables or disables debug warnings.
func (e *Engine) SetDebugMode(enabled bool) { e.debug = enabled }

// --- Objects ---

// CreateObject creates a root node with the next id.
func (e *Engine) CreateObject(name string) *Node {
	for e.index[e.nextID] != nil {
		e.nextID++
	}
	n := newNode(e, e.nextID, name)
	e.nextID++
	e.objects = append(e.objects, n)
	e.index[n.ID] = n
	e.log.Debug("object created", zapNode(n))
	e.graphChanged(SceneEvent{Type: EventObjectCreated, Node: n.ID, Name: n.Name})
	return n
}

// DestroyObject destroys n and its subtree.
func (e *Engine) DestroyObject(n *Node) {
	n.Destroy()
}

// Object returns the live node with the given id.
func (e *Engine) Object(id NodeID) (*Node, bool) {
	n, ok := e.index[id]
	return n, ok
}

// ObjectByName returns the first live node named name, searching roots in
// creation order and each subtree depth-first.
func (e *Engine) ObjectByName(name string) (*Node, bool) {
	var found *Node
	e.walk(func(n *Node) bool {
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// ObjectIDs returns every live node id, roots in creation order, each
// subtree depth-first.
func (e *Engine) ObjectIDs() []NodeID {
	ids := make([]NodeID, 0, len(e.index))
	e.walk(func(n *Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Roots returns the nodes without a parent, in creation order.
func (e *Engine) Roots() []*Node {
	var roots []*Node
	for _, n := range e.objects {
		if n.Parent == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

// NumObjects returns the number of live nodes.
func (e *Engine) NumObjects() int { return len(e.index) }

// ObjectsWithComponent returns every live node holding a component named
// name, in walk order.
func (e *Engine) ObjectsWithComponent(name string) []*Node {
	var out []*Node
	e.walk(func(n *Node) bool {
		if n.HasComponent(name) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// CountByComponent counts live nodes per component name.
func (e *Engine) CountByComponent() map[string]int {
	counts := make(map[string]int)
	e.walk(func(n *Node) bool {
		for _, name := range n.componentOrder {
			counts[name]++
		}
		return true
	})
	return counts
}

// ClearAll destroys every live node.
func (e *Engine) ClearAll() {
	for _, n := range slices.Clone(e.objects) {
		if n.Parent == nil {
			n.Destroy()
		}
	}
	e.log.Debug("all objects cleared")
}

// ResetObjectIDCounter restarts id allocation at 1. Ids still held by live
// nodes are skipped when allocating.
func (e *Engine) ResetObjectIDCounter() {
	e.nextID = 1
}

// Update ticks every root subtree and advances camera tweens.
func (e *Engine) Update(dt float64) error {
	if !e.debug {
		for _, n := range e.Roots() {
			n.Update(dt)
		}
		return e.camera.update(dt)
	}
	var stats debugStats
	t0 := time.Now()
	for _, n := range e.Roots() {
		n.Update(dt)
	}
	t1 := time.Now()
	err := e.camera.update(dt)
	stats.updateTime = t1.Sub(t0)
	stats.cameraTime = time.Since(t1)
	stats.nodeCount = len(e.index)
	e.debugLog(stats)
	return err
}

// --- Scene-wide settings ---

// SetStarsIntensity sets the intensity of the sky's star field and of every
// Stars component.
func (e *Engine) SetStarsIntensity(v float64) error {
	var errs []error
	if e.stars == nil && e.ctx != nil {
		h, err := e.ctx.Resolve(KindStars, "Stars")
		if err != nil {
			errs = append(errs, err)
		} else {
			e.stars = h
		}
	}
	if e.stars != nil && e.stars.Capabilities().Has(PropIntensity) {
		errs = append(errs, e.stars.Apply(PropIntensity, v))
	}
	for _, n := range e.ObjectsWithComponent("Stars") {
		if s, ok := n.GetComponent("Stars").(*Stars); ok {
			errs = append(errs, s.SetIntensity(v))
		}
	}
	return errors.Join(errs...)
}

// SetAllConstellations sets prop on every Constellation component and
// returns how many were changed.
func (e *Engine) SetAllConstellations(prop Property, v float64) (int, error) {
	count := 0
	var errs []error
	for _, n := range e.ObjectsWithComponent("Constellation") {
		c, ok := n.GetComponent("Constellation").(*Constellation)
		if !ok {
			continue
		}
		errs = append(errs, c.Set(prop, v))
		count++
	}
	e.log.Debug("constellations updated", zap.Stringer("property", prop), zap.Float64("value", v), zap.Int("count", count))
	return count, errors.Join(errs...)
}

// --- Internal ---

func (e *Engine) walk(fn func(*Node) bool) {
	for _, n := range e.objects {
		if n.Parent == nil {
			if !walk(n, fn) {
				return
			}
		}
	}
}

// forget drops a destroyed node from the index.
func (e *Engine) forget(n *Node) {
	delete(e.index, n.ID)
	if i := slices.Index(e.objects, n); i >= 0 {
		e.objects = slices.Delete(e.objects, i, i+1)
	}
	e.log.Debug("object destroyed", zapNode(n))
	e.graphChanged(SceneEvent{Type: EventObjectDestroyed, Node: n.ID, Name: n.Name})
}

func (e *Engine) graphChanged(ev SceneEvent) {
	if e.events != nil {
		e.events.EmitEvent(ev)
	}
}

func (e *Engine) node(call Call) (*Node, error) {
	n, ok := e.index[call.Target]
	if !ok {
		return nil, fmt.Errorf("%w: %s target %s", ErrUnknownNode, call.Op, call.Target)
	}
	return n, nil
}

func (e *Engine) nodeArg(call Call, i int) (*Node, error) {
	id, err := call.Node(i)
	if err != nil {
		return nil, err
	}
	n, ok := e.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s argument %s", ErrUnknownNode, call.Op, id)
	}
	return n, nil
}
