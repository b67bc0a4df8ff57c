package orrery

// --- Composition ---

// compose returns the world transform of a node with the given local
// transform under a parent whose world transform is parent.
func compose(parent, local Transform) Transform {
	return Transform{
		Position: parent.Position.Add(local.Position),
		Rotation: parent.Rotation.Add(local.Rotation),
		Scale:    mulAxes(parent.Scale, local.Scale),
	}
}

func mulAxes(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// divScale derives a local scale from a world scale under parent. Axes on
// which parent is zero keep their value from prev and are reported in the
// returned mask.
func divScale(world, parent, prev Vec3) (Vec3, Axis) {
	out := prev
	var skipped Axis
	for i := 0; i < 3; i++ {
		if parent[i] == 0 {
			skipped |= 1 << i
			continue
		}
		out[i] = world[i] / parent[i]
	}
	return out, skipped
}

// --- World setters ---

// SetWorldPosition moves the node so its world position is v. The local
// position is derived from the current parent, then descendants are
// recomputed.
func (n *Node) SetWorldPosition(v Vec3) {
	n.checkLive("SetWorldPosition")
	n.world.Position = v
	if n.Parent != nil {
		n.local.Position = v.Sub(n.Parent.world.Position)
	} else {
		n.local.Position = v
	}
	n.transformChanged()
}

// SetWorldRotation sets the world rotation in degrees per axis.
func (n *Node) SetWorldRotation(v Vec3) {
	n.checkLive("SetWorldRotation")
	n.world.Rotation = v
	if n.Parent != nil {
		n.local.Rotation = v.Sub(n.Parent.world.Rotation)
	} else {
		n.local.Rotation = v
	}
	n.transformChanged()
}

// SetWorldScale sets the world scale. When the parent's world scale is zero
// on an axis the local scale of that axis cannot be derived; it is left as
// is and a *TransformDegeneracy is returned. The cached world scale is then
// recomputed from the local one, so a skipped axis stays at zero.
func (n *Node) SetWorldScale(v Vec3) error {
	n.checkLive("SetWorldScale")
	var skipped Axis
	if n.Parent != nil {
		n.local.Scale, skipped = divScale(v, n.Parent.world.Scale, n.local.Scale)
	} else {
		n.local.Scale = v
	}
	n.world.Scale = v
	if skipped != 0 {
		n.recomputeWorld()
	}
	n.transformChanged()
	return n.degeneracy(skipped)
}

// --- Local setters ---

// SetLocalPosition sets the position relative to the parent.
func (n *Node) SetLocalPosition(v Vec3) {
	n.checkLive("SetLocalPosition")
	n.local.Position = v
	n.recomputeWorld()
	n.transformChanged()
}

// SetLocalRotation sets the rotation relative to the parent.
func (n *Node) SetLocalRotation(v Vec3) {
	n.checkLive("SetLocalRotation")
	n.local.Rotation = v
	n.recomputeWorld()
	n.transformChanged()
}

// SetLocalScale sets the scale relative to the parent. Axes on which the
// parent's world scale is zero are not written and reported through a
// *TransformDegeneracy.
func (n *Node) SetLocalScale(v Vec3) error {
	n.checkLive("SetLocalScale")
	var skipped Axis
	if n.Parent != nil {
		ps := n.Parent.world.Scale
		for i := 0; i < 3; i++ {
			if ps[i] == 0 {
				skipped |= 1 << i
				continue
			}
			n.local.Scale[i] = v[i]
		}
	} else {
		n.local.Scale = v
	}
	n.recomputeWorld()
	n.transformChanged()
	return n.degeneracy(skipped)
}

// --- Accessors ---

// LocalTransform returns the transform relative to the parent.
func (n *Node) LocalTransform() Transform { return n.local }

// WorldTransform returns the cached world transform.
func (n *Node) WorldTransform() Transform { return n.world }

// LocalPosition returns the local position.
func (n *Node) LocalPosition() Vec3 { return n.local.Position }

// LocalRotation returns the local rotation in degrees.
func (n *Node) LocalRotation() Vec3 { return n.local.Rotation }

// LocalScale returns the local scale.
func (n *Node) LocalScale() Vec3 { return n.local.Scale }

// WorldPosition returns the world position.
func (n *Node) WorldPosition() Vec3 { return n.world.Position }

// WorldRotation returns the world rotation in degrees.
func (n *Node) WorldRotation() Vec3 { return n.world.Rotation }

// WorldScale returns the world scale.
func (n *Node) WorldScale() Vec3 { return n.world.Scale }

// --- Propagation ---

// recomputeWorld rebuilds the cached world transform from local and the
// parent's world transform.
func (n *Node) recomputeWorld() {
	if n.Parent != nil {
		n.world = compose(n.Parent.world, n.local)
	} else {
		n.world = n.local
	}
}

// transformChanged notifies the node's own followers, then recomputes every
// descendant depth-first in pre-order.
func (n *Node) transformChanged() {
	n.notifyFollowers()
	for _, child := range n.children {
		propagate(child)
	}
}

func propagate(n *Node) {
	n.recomputeWorld()
	n.notifyFollowers()
	for _, child := range n.children {
		propagate(child)
	}
}

func (n *Node) degeneracy(skipped Axis) error {
	if skipped == 0 {
		return nil
	}
	err := &TransformDegeneracy{Node: n.ID, Name: n.Name, Axes: skipped}
	n.owner.log.Warn("transform degeneracy", zapNode(n), zapAxes(skipped))
	return err
}
