package orrery

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func invoke(t *testing.T, f Facade, call Call) Result {
	t.Helper()
	res, err := f.Invoke(call)
	require.NoError(t, err, "invoke %s", call)
	return res
}

// --- Scenarios ---

func TestScenarioReparentKeepsLocal(t *testing.T) {
	e := newTestEngine()
	a := invoke(t, e, NewCall(OpCreateObject, "A")).Node
	b := invoke(t, e, NewCall(OpCreateObject, "B")).Node
	invoke(t, e, NewCall(OpSetObjectPosition, V(5, 0, 0)).On(b))
	invoke(t, e, NewCall(OpAddChild, a).On(b))
	invoke(t, e, NewCall(OpSetObjectLocalPosition, V(1, 0, 0)).On(a))

	n, ok := e.Object(a)
	require.True(t, ok)
	assertVec(t, "A world", n.WorldPosition(), V(6, 0, 0))
}

func TestScenarioZeroParentScale(t *testing.T) {
	e := newTestEngine()
	parent := e.CreateObject("parent")
	child := e.CreateObject("child")
	parent.AddChild(child)
	require.NoError(t, parent.SetWorldScale(V(0, 1, 1)))

	_, err := e.Invoke(NewCall(OpSetObjectLocalScale, V(7, 7, 7)).On(child.ID))
	var deg *TransformDegeneracy
	require.ErrorAs(t, err, &deg)
	assert.Equal(t, AxisX, deg.Axes)

	s := child.LocalScale()
	assert.Equal(t, 1.0, s[0])
	for i, v := range child.WorldScale() {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "world scale[%d] = %v", i, v)
	}
}

// --- Dispatch ---

func TestInvokeUnknownOp(t *testing.T) {
	e := newTestEngine()
	_, err := e.Invoke(NewCall("warp_drive"))
	var unk *UnknownInstructionError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, Op("warp_drive"), unk.Op)
}

func TestInvokeCreateObjectDefaultName(t *testing.T) {
	e := newTestEngine()
	res := invoke(t, e, NewCall(OpCreateObject))
	n, ok := e.Object(res.Node)
	require.True(t, ok)
	assert.Equal(t, "GameObject", n.Name)
}

func TestInvokeUnknownTarget(t *testing.T) {
	e := newTestEngine()
	_, err := e.Invoke(NewCall(OpSetObjectPosition, V(1, 1, 1)).On(42))
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestInvokeBadArgument(t *testing.T) {
	e := newTestEngine()
	id := e.CreateObject("n").ID
	_, err := e.Invoke(NewCall(OpSetObjectPosition, "left").On(id))
	assert.ErrorIs(t, err, ErrBadArgument)
	_, err = e.Invoke(NewCall(OpSetObjectPosition).On(id))
	assert.ErrorIs(t, err, ErrBadArgument)
}

func TestInvokeRecoversCyclePanic(t *testing.T) {
	e := newTestEngine()
	a := e.CreateObject("a")
	b := e.CreateObject("b")
	a.AddChild(b)
	_, err := e.Invoke(NewCall(OpAddChild, a.ID).On(b.ID))
	require.ErrorIs(t, err, ErrBadArgument)
	assert.Contains(t, err.Error(), "cycle")
}

func TestInvokeAcceptsListVectors(t *testing.T) {
	e := newTestEngine()
	id := e.CreateObject("n").ID
	invoke(t, e, NewCall(OpSetObjectPosition, []any{1, 2.5, 3}).On(id))
	n, _ := e.Object(id)
	assertVec(t, "position", n.WorldPosition(), V(1, 2.5, 3))
}

func TestInvokeComponentLifecycle(t *testing.T) {
	e, b := newBackedEngine()
	id := e.CreateObject("Earth").ID
	res := invoke(t, e, NewCall(OpAddComponent, "Planet").On(id).With(map[string]any{"body": "Earth"}))
	assert.Equal(t, "Planet", res.Value)

	invoke(t, e, NewCall(OpSetComponentProperty, "Planet", "clouds_intensity", 0.8).On(id))
	h, ok := b.Handle(KindPlanet, "Earth")
	require.True(t, ok)
	v, _ := h.Value(PropCloudsIntensity)
	assert.Equal(t, 0.8, v)

	res = invoke(t, e, NewCall(OpGetComponent, "Planet").On(id))
	assert.IsType(t, &Planet{}, res.Value)

	invoke(t, e, NewCall(OpRemoveComponent, "Planet").On(id))
	_, err := e.Invoke(NewCall(OpRemoveComponent, "Planet").On(id))
	assert.ErrorIs(t, err, ErrUnknownComponent)
	_, err = e.Invoke(NewCall(OpAddComponent, "Nebula").On(id))
	assert.ErrorIs(t, err, ErrUnknownComponentKind)
}

func TestInvokeQueries(t *testing.T) {
	e := newTestEngine()
	sun := e.CreateObject("Sun")
	earth := e.CreateObject("Earth")
	moon := e.CreateObject("Moon")
	sun.AddChild(earth)
	earth.AddChild(moon)
	other := e.CreateObject("Other")
	moon.AddComponent(NewClock())
	other.AddComponent(NewClock())

	res := invoke(t, e, NewCall(OpGetObjectByName, "Moon"))
	assert.Equal(t, moon.ID, res.Node)
	res = invoke(t, e, NewCall(OpGetObjectByName, "Pluto"))
	assert.Equal(t, NodeID(0), res.Node)

	res = invoke(t, e, NewCall(OpGetObjectByID, float64(earth.ID)))
	assert.Equal(t, earth.ID, res.Node)

	res = invoke(t, e, NewCall(OpGetAllObjectIDs))
	assert.Equal(t, []NodeID{sun.ID, earth.ID, moon.ID, other.ID}, res.Value)

	res = invoke(t, e, NewCall(OpGetObjectsByComponent, "Clock"))
	assert.Equal(t, []NodeID{moon.ID, other.ID}, res.Value)

	res = invoke(t, e, NewCall(OpCountObjectsByComponent))
	assert.Equal(t, map[string]int{"Clock": 2}, res.Value)

	res = invoke(t, e, NewCall(OpGetObjectInfo, earth.ID))
	info := res.Value.(NodeInfo)
	assert.Equal(t, sun.ID, info.Parent)
	assert.Equal(t, []NodeID{moon.ID}, info.Children)
}

func TestInvokeDestroyAndClear(t *testing.T) {
	e := newTestEngine()
	a := e.CreateObject("a")
	b := e.CreateObject("b")
	a.AddChild(b)
	e.CreateObject("c")

	invoke(t, e, NewCall(OpDestroyObject).On(a.ID))
	assert.Equal(t, 1, e.NumObjects())

	invoke(t, e, NewCall(OpClearAllObjects))
	assert.Equal(t, 0, e.NumObjects())
	assert.Empty(t, e.Roots())
}

func TestResetObjectIDCounterSkipsLive(t *testing.T) {
	e := newTestEngine()
	a := e.CreateObject("a")
	b := e.CreateObject("b")
	a.Destroy()
	invoke(t, e, NewCall(OpResetObjectIDCounter))

	c := e.CreateObject("c")
	assert.Equal(t, NodeID(1), c.ID)
	d := e.CreateObject("d")
	assert.NotEqual(t, b.ID, d.ID)
	assert.Equal(t, NodeID(3), d.ID)
}

// --- Scene-wide ---

func TestSetAllConstellations(t *testing.T) {
	e, b := newBackedEngine()
	for _, abbr := range []string{"Ori", "UMa", "Cas"} {
		e.CreateObject(abbr).AddComponent(NewConstellation(abbr))
	}
	res := invoke(t, e, NewCall(OpSetAllConstellationArt, 0.25))
	assert.Equal(t, 3.0, res.Value)

	for _, abbr := range []string{"Ori", "UMa", "Cas"} {
		h, ok := b.Handle(KindConstellation, abbr)
		require.True(t, ok)
		v, _ := h.Value(PropArtIntensity)
		assert.Equal(t, 0.25, v, abbr)
	}
}

func TestSetStarsIntensity(t *testing.T) {
	e, b := newBackedEngine()
	stars := NewStars("Hipparcos")
	e.CreateObject("catalog").AddComponent(stars)

	invoke(t, e, NewCall(OpSetStarsIntensity, 0.3))

	sky, ok := b.Handle(KindStars, "Stars")
	require.True(t, ok, "global star field should be resolved lazily")
	v, _ := sky.Value(PropIntensity)
	assert.Equal(t, 0.3, v)
	assert.Equal(t, 0.3, stars.Float(PropIntensity))
}

func TestSetStarsIntensityHeadless(t *testing.T) {
	e := newTestEngine()
	assert.NoError(t, e.SetStarsIntensity(0.5))
}

// --- Events ---

type eventLog []SceneEvent

func (l *eventLog) EmitEvent(ev SceneEvent) { *l = append(*l, ev) }

func TestEngineEmitsGraphEvents(t *testing.T) {
	var events eventLog
	e := New(Config{Events: &events})
	p := e.CreateObject("p")
	c := e.CreateObject("c")
	p.AddChild(c)
	c.AddComponent(NewClock())
	c.RemoveComponent("Clock")
	p.Destroy()

	var types []SceneEventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []SceneEventType{
		EventObjectCreated, EventObjectCreated, EventReparented,
		EventComponentAdded, EventComponentRemoved,
		EventReparented, EventObjectDestroyed, EventObjectDestroyed,
	}, types)
	assert.Equal(t, p.ID, events[2].Parent)
}

// --- Logging ---

func TestDegeneracyIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := New(Config{Logger: zap.New(core)})
	parent := e.CreateObject("parent")
	child := e.CreateObject("child")
	parent.AddChild(child)
	require.NoError(t, parent.SetWorldScale(V(1, 0, 1)))

	err := child.SetWorldScale(V(2, 2, 2))
	var deg *TransformDegeneracy
	require.True(t, errors.As(err, &deg))

	entries := logs.FilterMessage("transform degeneracy").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "y", entries[0].ContextMap()["axes"])
}
