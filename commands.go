package orrery

import "fmt"

// Commands is a typed client over any Facade. Built over an *Engine it
// executes; built over a *Recorder it records.
type Commands struct {
	f Facade
}

// NewCommands returns a client that sends every call through f.
func NewCommands(f Facade) *Commands {
	return &Commands{f: f}
}

// Facade returns the underlying facade.
func (c *Commands) Facade() Facade { return c.f }

func (c *Commands) do(call Call) error {
	_, err := c.f.Invoke(call)
	return err
}

// CreateObject creates a node and returns a handle bound to the same facade,
// so calls made through the handle are recorded while recording.
func (c *Commands) CreateObject(name string) (*NodeRef, error) {
	res, err := c.f.Invoke(NewCall(OpCreateObject, name))
	if err != nil {
		return nil, err
	}
	return &NodeRef{id: res.Node, f: c.f}, nil
}

// Node returns a handle for an existing node id.
func (c *Commands) Node(id NodeID) *NodeRef {
	return &NodeRef{id: id, f: c.f}
}

// ObjectByName looks a node up by name. It returns nil when none matches.
func (c *Commands) ObjectByName(name string) (*NodeRef, error) {
	res, err := c.f.Invoke(NewCall(OpGetObjectByName, name))
	if err != nil || res.Node == 0 {
		return nil, err
	}
	return &NodeRef{id: res.Node, f: c.f}, nil
}

// ObjectIDs lists every live node id.
func (c *Commands) ObjectIDs() ([]NodeID, error) {
	res, err := c.f.Invoke(NewCall(OpGetAllObjectIDs))
	if err != nil {
		return nil, err
	}
	ids, _ := res.Value.([]NodeID)
	return ids, nil
}

// CameraInfo returns the camera state.
func (c *Commands) CameraInfo() (CameraInfo, error) {
	res, err := c.f.Invoke(NewCall(OpGetCameraInfo))
	if err != nil {
		return CameraInfo{}, err
	}
	info, ok := res.Value.(CameraInfo)
	if !ok {
		return CameraInfo{}, fmt.Errorf("%w: get_camera_info returned %T", ErrBadArgument, res.Value)
	}
	return info, nil
}

func (c *Commands) DestroyObject(n *NodeRef) error {
	return c.do(NewCall(OpDestroyObject).On(n.id))
}
func (c *Commands) ClearAllObjects() error      { return c.do(NewCall(OpClearAllObjects)) }
func (c *Commands) ResetObjectIDCounter() error { return c.do(NewCall(OpResetObjectIDCounter)) }

func (c *Commands) SetCameraPosition(p Vec3) error { return c.do(NewCall(OpSetCameraPosition, p)) }
func (c *Commands) SetCameraPositionTarget(p, target Vec3) error {
	return c.do(NewCall(OpSetCameraPosition, p, target))
}
func (c *Commands) SetCameraPositionLBR(lat, lon, r float64) error {
	return c.do(NewCall(OpSetCameraPositionLBR, lat, lon, r))
}
func (c *Commands) SetCameraRotation(hpr Vec3) error { return c.do(NewCall(OpSetCameraRotation, hpr)) }
func (c *Commands) SetCameraZoom(z float64) error    { return c.do(NewCall(OpSetCameraZoom, z)) }
func (c *Commands) SetCameraFOV(fov float64) error   { return c.do(NewCall(OpSetCameraFOV, fov)) }
func (c *Commands) SetCameraFocus(deg float64) error { return c.do(NewCall(OpSetCameraFocus, deg)) }
func (c *Commands) MoveCamera(delta Vec3) error      { return c.do(NewCall(OpMoveCamera, delta)) }
func (c *Commands) RotateCamera(delta Vec3) error    { return c.do(NewCall(OpRotateCamera, delta)) }
func (c *Commands) ZoomCamera(delta float64) error   { return c.do(NewCall(OpZoomCamera, delta)) }
func (c *Commands) LookAt(p Vec3) error              { return c.do(NewCall(OpLookAt, p)) }
func (c *Commands) OrbitCamera(p Vec3, distance, heading, pitch float64) error {
	return c.do(NewCall(OpOrbitCamera, p, distance, heading, pitch))
}

func (c *Commands) Update(dt float64) error { return c.do(NewCall(OpUpdate, dt)) }
func (c *Commands) SetAnimatorDuration(seconds float64) error {
	return c.do(NewCall(OpSetAnimatorDuration, seconds))
}
func (c *Commands) SetStarsIntensity(v float64) error { return c.do(NewCall(OpSetStarsIntensity, v)) }
func (c *Commands) SetAllConstellationLines(v float64) error {
	return c.do(NewCall(OpSetAllConstellationLines, v))
}
func (c *Commands) SetAllConstellationArt(v float64) error {
	return c.do(NewCall(OpSetAllConstellationArt, v))
}
func (c *Commands) SetAllConstellationLabels(v float64) error {
	return c.do(NewCall(OpSetAllConstellationLabels, v))
}
func (c *Commands) SetAllConstellationBoundaries(v float64) error {
	return c.do(NewCall(OpSetAllConstellationBoundary, v))
}

// NodeRef is a handle to a node through a Facade. Its mutating methods are
// recorded when the facade is a recording Recorder.
type NodeRef struct {
	id NodeID
	f  Facade
}

// ID returns the node id.
func (r *NodeRef) ID() NodeID { return r.id }

func (r *NodeRef) do(op Op, args ...any) error {
	_, err := r.f.Invoke(NewCall(op, args...).On(r.id))
	return err
}

func (r *NodeRef) SetPosition(p Vec3) error      { return r.do(OpSetObjectPosition, p) }
func (r *NodeRef) SetRotation(p Vec3) error      { return r.do(OpSetObjectRotation, p) }
func (r *NodeRef) SetScale(p Vec3) error         { return r.do(OpSetObjectScale, p) }
func (r *NodeRef) SetLocalPosition(p Vec3) error { return r.do(OpSetObjectLocalPosition, p) }
func (r *NodeRef) SetLocalRotation(p Vec3) error { return r.do(OpSetObjectLocalRotation, p) }
func (r *NodeRef) SetLocalScale(p Vec3) error    { return r.do(OpSetObjectLocalScale, p) }
func (r *NodeRef) AddChild(child *NodeRef) error { return r.do(OpAddChild, child.id) }
func (r *NodeRef) RemoveChild(child *NodeRef) error {
	return r.do(OpRemoveChild, child.id)
}
func (r *NodeRef) RemoveComponent(name string) error { return r.do(OpRemoveComponent, name) }
func (r *NodeRef) Update(dt float64) error           { return r.do(OpUpdateObject, dt) }
func (r *NodeRef) Destroy() error                    { return r.do(OpDestroyObject) }

// AddComponent adds a component of a registered kind, built from params.
func (r *NodeRef) AddComponent(kind string, params map[string]any) error {
	_, err := r.f.Invoke(NewCall(OpAddComponent, kind).On(r.id).With(params))
	return err
}

// SetProperty sets a property on one of the node's components.
func (r *NodeRef) SetProperty(component, property string, v any) error {
	return r.do(OpSetComponentProperty, component, property, v)
}

// GetComponent returns the named component, or nil. Lookups are never
// recorded.
func (r *NodeRef) GetComponent(name string) (Component, error) {
	res, err := r.f.Invoke(NewCall(OpGetComponent, name).On(r.id))
	if err != nil {
		return nil, err
	}
	c, _ := res.Value.(Component)
	return c, nil
}

// Info returns a snapshot of the node.
func (r *NodeRef) Info() (NodeInfo, error) {
	res, err := r.f.Invoke(NewCall(OpGetObjectInfo, r.id))
	if err != nil {
		return NodeInfo{}, err
	}
	info, _ := res.Value.(NodeInfo)
	return info, nil
}
