// Package script runs Lua scene scripts against an orrery Facade.
//
// A script drives the scene through the global engine table, whose fields
// are operation names:
//
//	local earth = engine.create_object("Earth")
//	earth:set_position(vec(1, 0, 0))
//	earth:add_component("Planet", {body = "Earth"})
//	engine.set_camera_zoom(2)
//
// Every call goes through Facade.Invoke, so the same script executes against
// an *orrery.Engine and is captured by a recording *orrery.Recorder.
package script

import (
	"fmt"
	"math"
	"strings"

	"github.com/Shopify/go-lua"
	"go.uber.org/zap"

	"github.com/phanxgames/orrery"
)

const (
	engineTypeName = "orrery.engine"
	nodeTypeName   = "orrery.node"
	vecTypeName    = "orrery.vec"
)

// Error is returned when a script fails. Err holds the engine error that
// raised it, if any.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return "script: " + e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Option configures a script run.
type Option func(*runner)

// WithLogger routes the script's print calls to l.
func WithLogger(l *zap.Logger) Option {
	return func(r *runner) { r.logger = l }
}

// WithChunkName names the chunk in Lua error messages.
func WithChunkName(name string) Option {
	return func(r *runner) { r.chunk = name }
}

type runner struct {
	f      orrery.Facade
	cmd    *orrery.Commands
	logger *zap.Logger
	chunk  string
	err    error
}

func newRunner(f orrery.Facade, opts []Option) *runner {
	r := &runner{f: f, cmd: orrery.NewCommands(f), chunk: "scene"}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Run executes source against f.
func Run(f orrery.Facade, source string, opts ...Option) error {
	r := newRunner(f, opts)
	return r.exec(func(l *lua.State) error {
		return lua.LoadBuffer(l, source, r.chunk, "t")
	})
}

// RunFile executes the script at path against f.
func RunFile(f orrery.Facade, path string, opts ...Option) error {
	r := newRunner(f, opts)
	return r.exec(func(l *lua.State) error {
		return lua.LoadFile(l, path, "t")
	})
}

func (r *runner) exec(load func(*lua.State) error) error {
	l := lua.NewState()
	lua.OpenLibraries(l)
	r.register(l)

	if err := load(l); err != nil {
		return &Error{Message: "load: " + stackMessage(l, err)}
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return &Error{Message: stackMessage(l, err), Err: r.err}
	}
	r.logger.Debug("script finished", zap.String("chunk", r.chunk))
	return nil
}

// stackMessage returns the error object left on the stack by a failed load
// or call, falling back to err.
func stackMessage(l *lua.State, err error) string {
	if msg, ok := l.ToString(-1); ok && msg != "" {
		return msg
	}
	return err.Error()
}

// fail raises err as a Lua error. It does not return.
func (r *runner) fail(l *lua.State, err error) {
	r.err = err
	lua.Errorf(l, "%s", err.Error())
}

func (r *runner) register(l *lua.State) {
	lua.NewMetaTable(l, engineTypeName)
	l.PushGoFunction(r.engineIndex)
	l.SetField(-2, "__index")
	l.Pop(1)

	lua.NewMetaTable(l, nodeTypeName)
	l.NewTable()
	lua.SetFunctions(l, r.nodeMethods(), 0)
	l.SetField(-2, "__index")
	l.PushGoFunction(nodeEqual)
	l.SetField(-2, "__eq")
	l.PushGoFunction(nodeString)
	l.SetField(-2, "__tostring")
	l.Pop(1)

	lua.NewMetaTable(l, vecTypeName)
	l.PushGoFunction(vecIndex)
	l.SetField(-2, "__index")
	l.PushGoFunction(vecString)
	l.SetField(-2, "__tostring")
	l.Pop(1)

	l.PushUserData(r.f)
	lua.SetMetaTableNamed(l, engineTypeName)
	l.SetGlobal("engine")

	l.PushGoFunction(vecNew)
	l.SetGlobal("vec")

	l.PushGoFunction(r.print)
	l.SetGlobal("print")
}

func (r *runner) print(l *lua.State) int {
	n := l.Top()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, _ := lua.ToStringMeta(l, i)
		parts = append(parts, s)
		l.Pop(1)
	}
	r.logger.Info(strings.Join(parts, "\t"), zap.String("chunk", r.chunk))
	return 0
}

// --- engine ---

// engineIndex resolves engine.<op> to a function that invokes op. Calls
// through a colon (engine:op(...)) are accepted too.
func (r *runner) engineIndex(l *lua.State) int {
	op := orrery.Op(lua.CheckString(l, 2))
	l.PushGoFunction(func(l *lua.State) int {
		first := 1
		if lua.TestUserData(l, 1, engineTypeName) != nil {
			first = 2
		}
		info, ok := orrery.LookupOp(op)
		if !ok {
			r.fail(l, &orrery.UnknownInstructionError{Op: op})
			return 0
		}
		var target orrery.NodeID
		if info.Targeted {
			id, ok := toNodeID(l, first)
			if !ok {
				lua.ArgumentError(l, first, "node expected")
				return 0
			}
			target = id
			first++
		}
		return r.invoke(l, op, info, target, first)
	})
	return 1
}

// invoke sends op with the Lua arguments from index first on, and pushes the
// result. Mutations return nothing. A trailing table on add_component is
// passed as the component parameters.
func (r *runner) invoke(l *lua.State, op orrery.Op, info orrery.OpInfo, target orrery.NodeID, first int) int {
	top := l.Top()
	args := make([]any, 0, top)
	var kwargs map[string]any
	for i := first; i <= top; i++ {
		v := luaToGo(l, i)
		if m, ok := v.(map[string]any); ok && i == top && op == orrery.OpAddComponent {
			kwargs = m
			continue
		}
		args = append(args, v)
	}

	call := orrery.NewCall(op, args...).On(target)
	if kwargs != nil {
		call = call.With(kwargs)
	}
	res, err := r.f.Invoke(call)
	if err != nil {
		r.fail(l, err)
		return 0
	}
	r.err = nil
	if info.Class == orrery.ClassMutation {
		return 0
	}
	if res.Node != 0 {
		r.pushNode(l, res.Node)
		return 1
	}
	r.pushValue(l, res.Value)
	return 1
}

// --- nodes ---

var nodeOps = map[string]orrery.Op{
	"set_position":       orrery.OpSetObjectPosition,
	"set_rotation":       orrery.OpSetObjectRotation,
	"set_scale":          orrery.OpSetObjectScale,
	"set_local_position": orrery.OpSetObjectLocalPosition,
	"set_local_rotation": orrery.OpSetObjectLocalRotation,
	"set_local_scale":    orrery.OpSetObjectLocalScale,
	"add_child":          orrery.OpAddChild,
	"remove_child":       orrery.OpRemoveChild,
	"add_component":      orrery.OpAddComponent,
	"remove_component":   orrery.OpRemoveComponent,
	"set_property":       orrery.OpSetComponentProperty,
	"get_component":      orrery.OpGetComponent,
	"update":             orrery.OpUpdateObject,
	"destroy":            orrery.OpDestroyObject,
}

func (r *runner) nodeMethods() []lua.RegistryFunction {
	fns := make([]lua.RegistryFunction, 0, len(nodeOps)+3)
	for name, op := range nodeOps {
		info, _ := orrery.LookupOp(op)
		fns = append(fns, lua.RegistryFunction{Name: name, Function: func(l *lua.State) int {
			n := checkNode(l, 1)
			return r.invoke(l, op, info, n.ID(), 2)
		}})
	}
	return append(fns,
		lua.RegistryFunction{Name: "id", Function: func(l *lua.State) int {
			l.PushNumber(float64(checkNode(l, 1).ID()))
			return 1
		}},
		lua.RegistryFunction{Name: "name", Function: func(l *lua.State) int {
			info, err := checkNode(l, 1).Info()
			if err != nil {
				r.fail(l, err)
				return 0
			}
			l.PushString(info.Name)
			return 1
		}},
		lua.RegistryFunction{Name: "info", Function: func(l *lua.State) int {
			info, err := checkNode(l, 1).Info()
			if err != nil {
				r.fail(l, err)
				return 0
			}
			r.pushValue(l, info)
			return 1
		}},
	)
}

func (r *runner) pushNode(l *lua.State, id orrery.NodeID) {
	l.PushUserData(r.cmd.Node(id))
	lua.SetMetaTableNamed(l, nodeTypeName)
}

func checkNode(l *lua.State, index int) *orrery.NodeRef {
	n, _ := lua.CheckUserData(l, index, nodeTypeName).(*orrery.NodeRef)
	return n
}

// toNodeID accepts a node or a numeric id.
func toNodeID(l *lua.State, index int) (orrery.NodeID, bool) {
	if n, ok := lua.TestUserData(l, index, nodeTypeName).(*orrery.NodeRef); ok {
		return n.ID(), true
	}
	if l.TypeOf(index) == lua.TypeNumber {
		f, _ := l.ToNumber(index)
		if f >= 1 && f == math.Trunc(f) {
			return orrery.NodeID(f), true
		}
	}
	return 0, false
}

func nodeEqual(l *lua.State) int {
	a, aok := lua.TestUserData(l, 1, nodeTypeName).(*orrery.NodeRef)
	b, bok := lua.TestUserData(l, 2, nodeTypeName).(*orrery.NodeRef)
	l.PushBoolean(aok && bok && a.ID() == b.ID())
	return 1
}

func nodeString(l *lua.State) int {
	l.PushString(fmt.Sprintf("node(%d)", checkNode(l, 1).ID()))
	return 1
}

// --- vectors ---

func vecNew(l *lua.State) int {
	pushVec(l, orrery.V(lua.OptNumber(l, 1, 0), lua.OptNumber(l, 2, 0), lua.OptNumber(l, 3, 0)))
	return 1
}

func pushVec(l *lua.State, v orrery.Vec3) {
	l.PushUserData(v)
	lua.SetMetaTableNamed(l, vecTypeName)
}

func checkVec(l *lua.State, index int) orrery.Vec3 {
	v, _ := lua.CheckUserData(l, index, vecTypeName).(orrery.Vec3)
	return v
}

// vecIndex exposes components as x, y, z or 1, 2, 3.
func vecIndex(l *lua.State) int {
	v := checkVec(l, 1)
	i := -1
	if l.TypeOf(2) == lua.TypeNumber {
		n, _ := l.ToInteger(2)
		i = n - 1
	} else {
		switch key, _ := l.ToString(2); key {
		case "x":
			i = 0
		case "y":
			i = 1
		case "z":
			i = 2
		}
	}
	if i < 0 || i > 2 {
		l.PushNil()
		return 1
	}
	l.PushNumber(v[i])
	return 1
}

func vecString(l *lua.State) int {
	v := checkVec(l, 1)
	l.PushString(fmt.Sprintf("vec(%g, %g, %g)", v[0], v[1], v[2]))
	return 1
}

// --- conversion ---

func luaToGo(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeString:
		v, _ := l.ToString(index)
		return v
	case lua.TypeNumber:
		v, _ := l.ToNumber(index)
		return v
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(l, index)
	case lua.TypeUserData:
		switch x := l.ToUserData(index).(type) {
		case orrery.Vec3:
			return x
		case *orrery.NodeRef:
			return x.ID()
		}
	}
	return nil
}

// tableToGo returns a sequence as []any and anything else as a map keyed by
// its string keys.
func tableToGo(l *lua.State, index int) any {
	index = l.AbsIndex(index)
	isArray := true
	maxIndex, count := 0, 0
	l.PushNil()
	for l.Next(index) {
		if isArray {
			if idx, ok := l.ToInteger(-2); ok && l.TypeOf(-2) == lua.TypeNumber && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		l.Pop(1)
	}
	if isArray && count > 0 && maxIndex == count {
		out := make([]any, 0, count)
		for i := 1; i <= count; i++ {
			l.RawGetInt(index, i)
			out = append(out, luaToGo(l, -1))
			l.Pop(1)
		}
		return out
	}

	out := map[string]any{}
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString {
			key, _ := l.ToString(-2)
			out[key] = luaToGo(l, -1)
		}
		l.Pop(1)
	}
	return out
}

func (r *runner) pushValue(l *lua.State, v any) {
	switch x := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(x)
	case float64:
		l.PushNumber(x)
	case int:
		l.PushInteger(x)
	case string:
		l.PushString(x)
	case orrery.Vec3:
		pushVec(l, x)
	case orrery.NodeID:
		r.pushNode(l, x)
	case []orrery.NodeID:
		l.CreateTable(len(x), 0)
		for i, id := range x {
			r.pushNode(l, id)
			l.RawSetInt(-2, i+1)
		}
	case []string:
		l.CreateTable(len(x), 0)
		for i, s := range x {
			l.PushString(s)
			l.RawSetInt(-2, i+1)
		}
	case []any:
		l.CreateTable(len(x), 0)
		for i, e := range x {
			r.pushValue(l, e)
			l.RawSetInt(-2, i+1)
		}
	case map[string]int:
		l.CreateTable(0, len(x))
		for k, n := range x {
			l.PushInteger(n)
			l.SetField(-2, k)
		}
	case map[string]any:
		l.CreateTable(0, len(x))
		for k, e := range x {
			r.pushValue(l, e)
			l.SetField(-2, k)
		}
	case orrery.Transform:
		l.CreateTable(0, 3)
		r.setFields(l, map[string]any{"position": x.Position, "rotation": x.Rotation, "scale": x.Scale})
	case orrery.NodeInfo:
		l.CreateTable(0, 7)
		fields := map[string]any{
			"id":         float64(x.ID),
			"name":       x.Name,
			"children":   x.Children,
			"components": x.Components,
			"local":      x.Local,
			"world":      x.World,
		}
		if x.Parent != 0 {
			fields["parent"] = x.Parent
		}
		r.setFields(l, fields)
	case orrery.CameraInfo:
		l.CreateTable(0, 7)
		r.setFields(l, map[string]any{
			"position": x.Position,
			"rotation": x.Rotation,
			"target":   x.Target,
			"zoom":     x.Zoom,
			"fov":      x.FOV,
			"focus":    x.Focus,
			"bound":    x.Bound,
		})
	case orrery.Component:
		l.PushString(x.Name())
	default:
		l.PushString(fmt.Sprint(x))
	}
}

// setFields sets each entry of fields on the table at the top of the stack.
func (r *runner) setFields(l *lua.State, fields map[string]any) {
	for k, v := range fields {
		r.pushValue(l, v)
		l.SetField(-2, k)
	}
}
