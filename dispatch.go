package orrery

import (
	"fmt"

	"go.uber.org/zap"
)

// Invoke executes call against the engine. Unknown operation names return
// *UnknownInstructionError. Structural misuse that would panic through the
// typed API (cycles, foreign nodes) is returned as an ErrBadArgument error
// here, since callers of Invoke address nodes by id.
func (e *Engine) Invoke(call Call) (res Result, err error) {
	if _, ok := opTable[call.Op]; !ok {
		return Result{}, &UnknownInstructionError{Op: call.Op}
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrBadArgument, call.Op, r)
		}
	}()
	res, err = e.dispatch(call)
	if err != nil {
		e.log.Debug("call failed", zap.Stringer("call", call), zap.Error(err))
	}
	return res, err
}

func (e *Engine) dispatch(call Call) (Result, error) {
	switch call.Op {
	// Object lifecycle.
	case OpCreateObject:
		name := "GameObject"
		if len(call.Args) > 0 {
			s, err := call.Str(0)
			if err != nil {
				return Result{}, err
			}
			name = s
		}
		return Result{Node: e.CreateObject(name).ID}, nil
	case OpDestroyObject:
		n, err := e.node(call)
		if err != nil {
			return Result{}, err
		}
		n.Destroy()
		return Result{}, nil
	case OpClearAllObjects:
		e.ClearAll()
		return Result{}, nil
	case OpResetObjectIDCounter:
		e.ResetObjectIDCounter()
		return Result{}, nil

	// Node mutation.
	case OpSetObjectPosition, OpSetObjectRotation, OpSetObjectScale,
		OpSetObjectLocalPosition, OpSetObjectLocalRotation, OpSetObjectLocalScale:
		return Result{}, e.setTransform(call)
	case OpAddChild, OpRemoveChild:
		n, err := e.node(call)
		if err != nil {
			return Result{}, err
		}
		child, err := e.nodeArg(call, 0)
		if err != nil {
			return Result{}, err
		}
		if call.Op == OpAddChild {
			n.AddChild(child)
		} else {
			n.RemoveChild(child)
		}
		return Result{}, nil

	// Components.
	case OpAddComponent:
		n, err := e.node(call)
		if err != nil {
			return Result{}, err
		}
		kind, err := call.Str(0)
		if err != nil {
			return Result{}, err
		}
		c, err := e.kinds.New(kind, call.Kwargs)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", call.Op, err)
		}
		n.AddComponent(c)
		return Result{Node: n.ID, Value: c.Name()}, nil
	case OpRemoveComponent:
		n, err := e.node(call)
		if err != nil {
			return Result{}, err
		}
		name, err := call.Str(0)
		if err != nil {
			return Result{}, err
		}
		if !n.RemoveComponent(name) {
			return Result{}, fmt.Errorf("%w: %s has no component %q", ErrUnknownComponent, n, name)
		}
		return Result{}, nil
	case OpSetComponentProperty:
		n, err := e.node(call)
		if err != nil {
			return Result{}, err
		}
		comp, err := call.Str(0)
		if err != nil {
			return Result{}, err
		}
		prop, err := call.Str(1)
		if err != nil {
			return Result{}, err
		}
		v, err := call.arg(2)
		if err != nil {
			return Result{}, err
		}
		return Result{}, n.SetComponentProperty(comp, prop, v)

	// Camera.
	case OpSetCameraPosition:
		p, err := call.Vec(0)
		if err != nil {
			return Result{}, err
		}
		target, ok, err := call.OptVec(1)
		if err != nil {
			return Result{}, err
		}
		if ok {
			return Result{}, e.camera.SetPositionTarget(p, target)
		}
		return Result{}, e.camera.SetPosition(p)
	case OpSetCameraPositionLBR:
		f, err := floats(call, 3)
		if err != nil {
			return Result{}, err
		}
		return Result{}, e.camera.SetPositionLBR(f[0], f[1], f[2])
	case OpSetCameraRotation, OpMoveCamera, OpRotateCamera, OpLookAt:
		v, err := call.Vec(0)
		if err != nil {
			return Result{}, err
		}
		switch call.Op {
		case OpSetCameraRotation:
			return Result{}, e.camera.SetRotation(v)
		case OpMoveCamera:
			return Result{}, e.camera.Move(v)
		case OpRotateCamera:
			return Result{}, e.camera.Rotate(v)
		}
		return Result{}, e.camera.LookAt(v)
	case OpSetCameraZoom, OpSetCameraFOV, OpSetCameraFocus, OpZoomCamera:
		f, err := call.Float(0)
		if err != nil {
			return Result{}, err
		}
		switch call.Op {
		case OpSetCameraZoom:
			return Result{}, e.camera.SetZoom(f)
		case OpSetCameraFOV:
			return Result{}, e.camera.SetFOV(f)
		case OpSetCameraFocus:
			return Result{}, e.camera.SetFocus(f)
		}
		return Result{}, e.camera.ZoomBy(f)
	case OpOrbitCamera:
		target, err := call.Vec(0)
		if err != nil {
			return Result{}, err
		}
		f, err := floatsFrom(call, 1, 3)
		if err != nil {
			return Result{}, err
		}
		return Result{}, e.camera.Orbit(target, f[0], f[1], f[2])

	// Scene-wide.
	case OpUpdate, OpSetAnimatorDuration, OpSetStarsIntensity,
		OpSetAllConstellationLines, OpSetAllConstellationArt,
		OpSetAllConstellationLabels, OpSetAllConstellationBoundary:
		f, err := call.Float(0)
		if err != nil {
			return Result{}, err
		}
		switch call.Op {
		case OpUpdate:
			return Result{}, e.Update(f)
		case OpSetAnimatorDuration:
			e.animator.SetDuration(f)
			return Result{}, nil
		case OpSetStarsIntensity:
			return Result{}, e.SetStarsIntensity(f)
		}
		count, err := e.SetAllConstellations(constellationOps[call.Op], f)
		return Result{Value: float64(count)}, err

	// Queries.
	case OpGetObjectByName:
		name, err := call.Str(0)
		if err != nil {
			return Result{}, err
		}
		if n, ok := e.ObjectByName(name); ok {
			return Result{Node: n.ID}, nil
		}
		return Result{}, nil
	case OpGetObjectByID:
		id, err := call.Node(0)
		if err != nil {
			return Result{}, err
		}
		if n, ok := e.index[id]; ok {
			return Result{Node: n.ID}, nil
		}
		return Result{}, nil
	case OpGetAllObjectIDs:
		return Result{Value: e.ObjectIDs()}, nil
	case OpGetObjectInfo:
		n, err := e.nodeArg(call, 0)
		if err != nil {
			return Result{}, err
		}
		return Result{Node: n.ID, Value: n.Info()}, nil
	case OpGetObjectsByComponent:
		name, err := call.Str(0)
		if err != nil {
			return Result{}, err
		}
		nodes := e.ObjectsWithComponent(name)
		ids := make([]NodeID, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		return Result{Value: ids}, nil
	case OpCountObjectsByComponent:
		return Result{Value: e.CountByComponent()}, nil
	case OpGetCameraInfo:
		return Result{Value: e.camera.Info()}, nil
	case OpGetComponent:
		n, err := e.node(call)
		if err != nil {
			return Result{}, err
		}
		name, err := call.Str(0)
		if err != nil {
			return Result{}, err
		}
		return Result{Node: n.ID, Value: n.GetComponent(name)}, nil
	case OpUpdateObject:
		n, err := e.node(call)
		if err != nil {
			return Result{}, err
		}
		f, err := call.Float(0)
		if err != nil {
			return Result{}, err
		}
		n.Update(f)
		return Result{}, nil
	}
	return Result{}, &UnknownInstructionError{Op: call.Op}
}

var constellationOps = map[Op]Property{
	OpSetAllConstellationLines:    PropLinesIntensity,
	OpSetAllConstellationArt:      PropArtIntensity,
	OpSetAllConstellationLabels:   PropLabelIntensity,
	OpSetAllConstellationBoundary: PropBoundaryIntensity,
}

func (e *Engine) setTransform(call Call) error {
	n, err := e.node(call)
	if err != nil {
		return err
	}
	v, err := call.Vec(0)
	if err != nil {
		return err
	}
	switch call.Op {
	case OpSetObjectPosition:
		n.SetWorldPosition(v)
	case OpSetObjectRotation:
		n.SetWorldRotation(v)
	case OpSetObjectScale:
		return n.SetWorldScale(v)
	case OpSetObjectLocalPosition:
		n.SetLocalPosition(v)
	case OpSetObjectLocalRotation:
		n.SetLocalRotation(v)
	case OpSetObjectLocalScale:
		return n.SetLocalScale(v)
	}
	return nil
}

func floats(call Call, n int) ([]float64, error) {
	return floatsFrom(call, 0, n)
}

func floatsFrom(call Call, start, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		f, err := call.Float(start + i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
