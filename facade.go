package orrery

import (
	"fmt"
	"strings"
)

// Facade dispatches operations by name. *Engine executes them, *Recorder
// captures them, and the Replayer drives any Facade from a CommandLog.
type Facade interface {
	Invoke(call Call) (Result, error)
}

// FacadeFunc adapts a function to Facade.
type FacadeFunc func(call Call) (Result, error)

func (f FacadeFunc) Invoke(call Call) (Result, error) { return f(call) }

// Call is one operation invocation.
type Call struct {
	Op Op
	// Target is the node a targeted operation acts on.
	Target NodeID
	Args   []any
	Kwargs map[string]any
}

// NewCall builds a call with normalized positional arguments.
func NewCall(op Op, args ...any) Call {
	return Call{Op: op, Args: normalizeArgs(args)}
}

// On returns c with Target set.
func (c Call) On(target NodeID) Call {
	c.Target = target
	return c
}

// With returns c with kwargs set.
func (c Call) With(kwargs map[string]any) Call {
	c.Kwargs = normalizeKwargs(kwargs)
	return c
}

func (c Call) String() string {
	var b strings.Builder
	b.WriteString(string(c.Op))
	if c.Target != 0 {
		b.WriteString("@")
		b.WriteString(c.Target.String())
	}
	b.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, a)
	}
	if len(c.Kwargs) > 0 {
		if len(c.Args) > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, c.Kwargs)
	}
	b.WriteString(")")
	return b.String()
}

// Result carries an operation's outcome. Node is set by operations that
// create or look up a node.
type Result struct {
	Node  NodeID
	Value any
}

// --- Argument access ---

func (c Call) arg(i int) (any, error) {
	if i >= len(c.Args) {
		return nil, badArg(c.Op, "missing argument %d", i)
	}
	return normalizeValue(c.Args[i]), nil
}

// Float returns positional argument i as a number.
func (c Call) Float(i int) (float64, error) {
	v, err := c.arg(i)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, badArg(c.Op, "argument %d wants number, got %T", i, v)
	}
	return f, nil
}

// Str returns positional argument i as a string.
func (c Call) Str(i int) (string, error) {
	v, err := c.arg(i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", badArg(c.Op, "argument %d wants string, got %T", i, v)
	}
	return s, nil
}

// Vec returns positional argument i as a vector.
func (c Call) Vec(i int) (Vec3, error) {
	v, err := c.arg(i)
	if err != nil {
		return Vec3{}, err
	}
	vec, ok := v.(Vec3)
	if !ok {
		return Vec3{}, badArg(c.Op, "argument %d wants vec3, got %T", i, v)
	}
	return vec, nil
}

// Node returns positional argument i as a node id.
func (c Call) Node(i int) (NodeID, error) {
	v, err := c.arg(i)
	if err != nil {
		return 0, err
	}
	return asNodeID(c.Op, i, v)
}

// OptVec returns positional argument i as a vector if present and not nil.
func (c Call) OptVec(i int) (Vec3, bool, error) {
	if i >= len(c.Args) || c.Args[i] == nil {
		return Vec3{}, false, nil
	}
	v, err := c.Vec(i)
	return v, err == nil, err
}

func asNodeID(op Op, i int, v any) (NodeID, error) {
	switch x := v.(type) {
	case NodeID:
		return x, nil
	case float64:
		if x >= 1 && x == float64(uint64(x)) {
			return NodeID(x), nil
		}
	}
	return 0, badArg(op, "argument %d wants node id, got %v", i, v)
}
