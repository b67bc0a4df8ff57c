package orrery

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNode is returned when a call names a node id that is not live.
	ErrUnknownNode = errors.New("orrery: unknown node")
	// ErrBadArgument is returned when a call's arguments have the wrong shape.
	ErrBadArgument = errors.New("orrery: bad argument")
	// ErrUnknownComponentKind is returned by add_component for kinds with no
	// registered factory.
	ErrUnknownComponentKind = errors.New("orrery: unknown component kind")
	// ErrUnknownComponent is returned when a node has no component of the
	// requested name.
	ErrUnknownComponent = errors.New("orrery: unknown component")
	// ErrUnknownProperty is returned when a component does not declare the
	// property being set.
	ErrUnknownProperty = errors.New("orrery: unknown property")
	// ErrFrameNotFound is returned by Timeline.Run for unregistered frames.
	ErrFrameNotFound = errors.New("orrery: frame not found")
	// ErrUnresolved is returned by an EngineContext that has no object of the
	// requested kind and name.
	ErrUnresolved = errors.New("orrery: engine object not found")
)

// RecordingStateError reports a recorder lifecycle call made in the wrong
// state: Start while recording, or Stop while idle.
type RecordingStateError struct {
	Op    string
	State RecorderState
}

func (e *RecordingStateError) Error() string {
	return fmt.Sprintf("orrery: cannot %s recorder while %s", e.Op, e.State)
}

// UnknownInstructionError reports an operation name that the facade does not
// dispatch.
type UnknownInstructionError struct {
	Op Op
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("orrery: unknown instruction %q", string(e.Op))
}

// SerializationError reports a command log document that could not be
// encoded or decoded.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("orrery: command log: %v", e.Err)
	}
	return fmt.Sprintf("orrery: command log %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// TransformDegeneracy is returned by scale setters when a parent's world
// scale is zero on one or more axes. The local scale of those axes is left
// untouched; the other axes are applied normally.
type TransformDegeneracy struct {
	Node NodeID
	Name string
	Axes Axis
}

func (e *TransformDegeneracy) Error() string {
	return fmt.Sprintf("orrery: node %q (%s): parent scale is zero on axis %s, local scale left unchanged",
		e.Name, e.Node, e.Axes)
}

// badArg wraps ErrBadArgument with call context.
func badArg(op Op, format string, a ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrBadArgument, op, fmt.Sprintf(format, a...))
}
