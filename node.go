package orrery

import (
	"fmt"

	"go.uber.org/zap"
)

// Node is a named element of the scene graph. It carries a local transform,
// a cached world transform, an ordered list of children and a set of
// components keyed by name.
//
// Nodes are created through Engine.CreateObject and belong to that engine for
// their whole life. The world transform always equals the composition of the
// parent's world transform with the local transform; every setter restores
// that before returning.
type Node struct {
	// ID is unique within the owning engine and never reused after Destroy.
	ID NodeID
	// Name is a human-readable label. Names need not be unique.
	Name string
	// Parent is the node this one hangs off, or nil for a root.
	Parent *Node

	children []*Node
	local    Transform
	world    Transform

	components     map[string]Component
	componentOrder []string

	owner     *Engine
	destroyed bool
}

func newNode(owner *Engine, id NodeID, name string) *Node {
	return &Node{
		ID:         id,
		Name:       name,
		local:      IdentityTransform(),
		world:      IdentityTransform(),
		components: make(map[string]Component),
		owner:      owner,
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%q%s", n.Name, n.ID)
}

// Engine returns the engine that created the node.
func (n *Node) Engine() *Engine { return n.owner }

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// The child's local transform is kept and its world transform recomputed.
// Panics if child is nil, destroyed, owned by another engine, or is this
// node or one of its ancestors (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("orrery: cannot add nil child")
	}
	n.checkLive("AddChild (parent)")
	child.checkLive("AddChild (child)")
	if child.owner != n.owner {
		panic("orrery: cannot add a child created by another engine")
	}
	if isAncestor(child, n) {
		panic("orrery: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	propagate(child)
	n.owner.graphChanged(SceneEvent{Type: EventReparented, Node: child.ID, Name: child.Name, Parent: n.ID})
	if n.owner.debug {
		n.owner.debugCheckTreeDepth(child)
		n.owner.debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node. The child's transform fields
// are left exactly as they were; the child becomes a root.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil {
		panic("orrery: cannot remove nil child")
	}
	n.checkLive("RemoveChild (parent)")
	if child.Parent != n {
		panic("orrery: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.owner.graphChanged(SceneEvent{Type: EventReparented, Node: child.ID, Name: child.Name})
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Destruction ---

// Destroy destroys every descendant (children first), detaches the node from
// its parent, stops and removes all of its components and releases its id.
// Destroying twice is a no-op.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	for len(n.children) > 0 {
		n.children[0].Destroy()
	}
	n.RemoveFromParent()
	for i := len(n.componentOrder) - 1; i >= 0; i-- {
		n.components[n.componentOrder[i]].Stop()
	}
	n.components = nil
	n.componentOrder = nil
	n.destroyed = true
	n.owner.forget(n)
}

// IsDestroyed reports whether Destroy has been called.
func (n *Node) IsDestroyed() bool {
	return n.destroyed
}

// --- Update ---

// Update ticks every component of the node in insertion order, then every
// child's subtree.
func (n *Node) Update(dt float64) {
	n.checkLive("Update")
	n.updateComponents(dt)
	for _, child := range n.children {
		child.Update(dt)
	}
}

func (n *Node) updateComponents(dt float64) {
	for _, name := range n.componentOrder {
		n.components[name].Update(dt)
	}
}

// --- Info ---

// NodeInfo is a read-only snapshot of a node, returned by get_object_info.
type NodeInfo struct {
	ID         NodeID    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Parent     NodeID    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children   []NodeID  `json:"children" yaml:"children"`
	Components []string  `json:"components" yaml:"components"`
	Local      Transform `json:"local" yaml:"local"`
	World      Transform `json:"world" yaml:"world"`
}

// Info returns a snapshot of the node.
func (n *Node) Info() NodeInfo {
	info := NodeInfo{
		ID:         n.ID,
		Name:       n.Name,
		Children:   make([]NodeID, len(n.children)),
		Components: n.ComponentNames(),
		Local:      n.local,
		World:      n.world,
	}
	if n.Parent != nil {
		info.Parent = n.Parent.ID
	}
	for i, c := range n.children {
		info.Children[i] = c.ID
	}
	return info
}

// --- Helpers ---

// checkLive panics when a destroyed node is used.
func (n *Node) checkLive(op string) {
	if n.destroyed {
		panic(fmt.Sprintf("orrery: %s on destroyed node %q (ID %d)", op, n.Name, n.ID))
	}
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// walk visits n and its descendants depth-first in pre-order. Returning
// false from fn stops the walk.
func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

func zapNode(n *Node) zap.Field { return zap.Stringer("node", n) }

func zapAxes(a Axis) zap.Field { return zap.Stringer("axes", a) }
