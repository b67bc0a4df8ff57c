package orrery

import (
	"fmt"
	"strings"
	"testing"
)

func expectPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", contains)
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, contains) {
			t.Errorf("panic = %q, want it to contain %q", msg, contains)
		}
	}()
	fn()
}

// --- Creation ---

func TestCreateObjectDefaults(t *testing.T) {
	e := newTestEngine()
	n := e.CreateObject("earth")
	if n.ID != 1 {
		t.Errorf("ID = %v, want #1", n.ID)
	}
	if n.Name != "earth" {
		t.Errorf("Name = %q, want earth", n.Name)
	}
	if n.Parent != nil {
		t.Error("new node should be a root")
	}
	if n.Engine() != e {
		t.Error("Engine() should return the creating engine")
	}
	assertVec(t, "scale", n.LocalScale(), V(1, 1, 1))
}

func TestCreateObjectIDsIncrease(t *testing.T) {
	e := newTestEngine()
	a := e.CreateObject("a")
	b := e.CreateObject("b")
	if b.ID <= a.ID {
		t.Errorf("ids = %v, %v, want increasing", a.ID, b.ID)
	}
}

// --- Tree ---

func TestAddChildOrderAndParent(t *testing.T) {
	e := newTestEngine()
	p := e.CreateObject("p")
	a := e.CreateObject("a")
	b := e.CreateObject("b")
	p.AddChild(a)
	p.AddChild(b)
	if p.NumChildren() != 2 || p.ChildAt(0) != a || p.ChildAt(1) != b {
		t.Fatalf("children = %v, want [a b]", p.Children())
	}
	if a.Parent != p {
		t.Error("a.Parent should be p")
	}
}

func TestAddChildReparents(t *testing.T) {
	e := newTestEngine()
	p1 := e.CreateObject("p1")
	p2 := e.CreateObject("p2")
	c := e.CreateObject("c")
	p1.AddChild(c)
	p2.AddChild(c)
	if p1.NumChildren() != 0 {
		t.Errorf("p1 children = %d, want 0", p1.NumChildren())
	}
	if c.Parent != p2 {
		t.Error("c.Parent should be p2")
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	e := newTestEngine()
	a := e.CreateObject("a")
	b := e.CreateObject("b")
	a.AddChild(b)
	expectPanic(t, "cycle", func() { b.AddChild(a) })
	expectPanic(t, "cycle", func() { a.AddChild(a) })
}

func TestAddChildForeignEnginePanics(t *testing.T) {
	a := newTestEngine().CreateObject("a")
	b := newTestEngine().CreateObject("b")
	expectPanic(t, "another engine", func() { a.AddChild(b) })
}

func TestAddChildDestroyedPanics(t *testing.T) {
	e := newTestEngine()
	p := e.CreateObject("p")
	c := e.CreateObject("c")
	c.Destroy()
	expectPanic(t, "destroyed", func() { p.AddChild(c) })
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	e := newTestEngine()
	p := e.CreateObject("p")
	c := e.CreateObject("c")
	expectPanic(t, "not this node", func() { p.RemoveChild(c) })
}

func TestRemoveFromParentNoParent(t *testing.T) {
	e := newTestEngine()
	n := e.CreateObject("n")
	n.RemoveFromParent()
	if n.Parent != nil {
		t.Error("Parent should stay nil")
	}
}

// --- Destroy ---

func TestDestroySubtree(t *testing.T) {
	e := newTestEngine()
	root := e.CreateObject("root")
	mid := e.CreateObject("mid")
	leaf := e.CreateObject("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	keep := e.CreateObject("keep")

	root.Destroy()
	for _, n := range []*Node{root, mid, leaf} {
		if !n.IsDestroyed() {
			t.Errorf("%s should be destroyed", n)
		}
		if _, ok := e.Object(n.ID); ok {
			t.Errorf("%s still indexed", n)
		}
	}
	if e.NumObjects() != 1 {
		t.Errorf("NumObjects = %d, want 1", e.NumObjects())
	}
	if _, ok := e.Object(keep.ID); !ok {
		t.Error("unrelated node should survive")
	}
}

func TestDestroyDetachesFromParent(t *testing.T) {
	e := newTestEngine()
	p := e.CreateObject("p")
	c := e.CreateObject("c")
	p.AddChild(c)
	c.Destroy()
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", p.NumChildren())
	}
}

func TestDestroyTwiceIsNoop(t *testing.T) {
	e := newTestEngine()
	n := e.CreateObject("n")
	n.Destroy()
	n.Destroy()
}

func TestDestroyedNodeSetterPanics(t *testing.T) {
	e := newTestEngine()
	n := e.CreateObject("n")
	n.Destroy()
	expectPanic(t, "destroyed", func() { n.SetWorldPosition(V(1, 0, 0)) })
}

func TestDestroyStopsComponentsInReverse(t *testing.T) {
	e := newTestEngine()
	n := e.CreateObject("n")
	var stopped []string
	n.AddComponent(&probe{name: "first", onStop: func(name string) { stopped = append(stopped, name) }})
	n.AddComponent(&probe{name: "second", onStop: func(name string) { stopped = append(stopped, name) }})
	n.Destroy()
	if strings.Join(stopped, ",") != "second,first" {
		t.Errorf("stop order = %v, want [second first]", stopped)
	}
}

// --- Update ---

func TestUpdateVisitsComponentsThenChildren(t *testing.T) {
	e := newTestEngine()
	p := e.CreateObject("p")
	c := e.CreateObject("c")
	p.AddChild(c)
	var order []string
	p.AddComponent(&probe{name: "pc", onUpdate: func(string, float64) { order = append(order, "p") }})
	c.AddComponent(&probe{name: "cc", onUpdate: func(string, float64) { order = append(order, "c") }})

	p.Update(0.5)
	if strings.Join(order, "") != "pc" {
		t.Errorf("update order = %v, want [p c]", order)
	}
}

// --- Info ---

func TestInfoSnapshot(t *testing.T) {
	e := newTestEngine()
	p := e.CreateObject("p")
	c := e.CreateObject("c")
	p.AddChild(c)
	c.AddComponent(NewClock())
	c.SetLocalPosition(V(1, 2, 3))

	info := c.Info()
	if info.Parent != p.ID {
		t.Errorf("Parent = %v, want %v", info.Parent, p.ID)
	}
	if len(info.Components) != 1 || info.Components[0] != "Clock" {
		t.Errorf("Components = %v, want [Clock]", info.Components)
	}
	assertVec(t, "local", info.Local.Position, V(1, 2, 3))

	pinfo := p.Info()
	if len(pinfo.Children) != 1 || pinfo.Children[0] != c.ID {
		t.Errorf("Children = %v, want [%v]", pinfo.Children, c.ID)
	}
}

// probe is a test component that reports its lifecycle.
type probe struct {
	name     string
	started  int
	stopped  int
	updates  []float64
	followed []Transform
	onStop   func(name string)
	onUpdate func(name string, dt float64)
}

func (p *probe) Name() string { return p.name }
func (p *probe) Start()       { p.started++ }

func (p *probe) Stop() {
	p.stopped++
	if p.onStop != nil {
		p.onStop(p.name)
	}
}

func (p *probe) Update(dt float64) {
	p.updates = append(p.updates, dt)
	if p.onUpdate != nil {
		p.onUpdate(p.name, dt)
	}
}

func (p *probe) FollowTransform(world Transform) {
	p.followed = append(p.followed, world)
}
