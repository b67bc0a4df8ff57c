package orrery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderLifecycleErrors(t *testing.T) {
	rec := NewRecorder(newTestEngine())
	assert.Equal(t, Idle, rec.State())

	_, err := rec.Stop()
	var stateErr *RecordingStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "stop", stateErr.Op)

	require.NoError(t, rec.Start())
	first := rec.Log().Session()
	err = rec.Start()
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "start", stateErr.Op)
	assert.Equal(t, first, rec.Log().Session(), "failed Start must not reset the session")
}

func TestRecorderIdlePassesThrough(t *testing.T) {
	e := newTestEngine()
	rec := NewRecorder(e)
	cmd := NewCommands(rec)
	n, err := cmd.CreateObject("n")
	require.NoError(t, err)
	require.NoError(t, n.SetPosition(V(1, 2, 3)))

	node, _ := e.Object(n.ID())
	assertVec(t, "position", node.WorldPosition(), V(1, 2, 3))
	assert.Equal(t, 0, rec.Log().Len())
}

func TestRecorderCapturesWithoutExecuting(t *testing.T) {
	e := newTestEngine()
	rec := NewRecorder(e)
	require.NoError(t, rec.Start())
	cmd := NewCommands(rec)

	n, err := cmd.CreateObject("Earth")
	require.NoError(t, err)
	require.NoError(t, n.SetPosition(V(5, 0, 0)))
	require.NoError(t, cmd.SetCameraZoom(2))

	node, ok := e.Object(n.ID())
	require.True(t, ok, "create_object executes while recording")
	assertVec(t, "position", node.WorldPosition(), Vec3{})
	assert.Equal(t, 1.0, e.Camera().Zoom())

	log, err := rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, []Op{OpCreateObject, OpSetObjectPosition, OpSetCameraZoom}, log.Ops())
	assert.Equal(t, n.ID(), log.At(0).Target(), "factory instruction carries the created id")
	assert.Equal(t, n.ID(), log.At(1).Target())
}

func TestRecorderQueriesPassThrough(t *testing.T) {
	e := newTestEngine()
	e.CreateObject("Moon")
	rec := NewRecorder(e)
	require.NoError(t, rec.Start())
	cmd := NewCommands(rec)

	moon, err := cmd.ObjectByName("Moon")
	require.NoError(t, err)
	require.NotNil(t, moon)
	info, err := cmd.CameraInfo()
	require.NoError(t, err)
	assert.Equal(t, 60.0, info.FOV)

	log, _ := rec.Stop()
	assert.Equal(t, 0, log.Len())
}

func TestRecorderUnknownOp(t *testing.T) {
	rec := NewRecorder(newTestEngine())
	require.NoError(t, rec.Start())
	_, err := rec.Invoke(NewCall("teleport"))
	var unk *UnknownInstructionError
	require.ErrorAs(t, err, &unk)
	log, _ := rec.Stop()
	assert.Equal(t, 0, log.Len())
}

func TestRecorderFactoryFailureNotCaptured(t *testing.T) {
	rec := NewRecorder(newTestEngine())
	require.NoError(t, rec.Start())
	_, err := rec.Invoke(NewCall(OpCreateObject, 42))
	assert.ErrorIs(t, err, ErrBadArgument)
	log, _ := rec.Stop()
	assert.Equal(t, 0, log.Len())
}

func TestRecorderSessionsAreFresh(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(newTestEngine(), WithClock(func() time.Time { return at }))

	require.NoError(t, rec.Start())
	require.NoError(t, NewCommands(rec).SetCameraFOV(45))
	first, err := rec.Stop()
	require.NoError(t, err)

	require.NoError(t, rec.Start())
	second, err := rec.Stop()
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first.Session())
	assert.NotEqual(t, first.Session(), second.Session())
	assert.Equal(t, at, first.RecordedAt())
	assert.Equal(t, 1, first.Len(), "a new session must not touch the previous log")
	assert.Equal(t, 0, second.Len())
}

func TestRecorderScenarioBucketOrder(t *testing.T) {
	e := newTestEngine()
	rec := NewRecorder(e)
	require.NoError(t, rec.Start())
	_, err := rec.Invoke(NewCall(OpSetCameraPosition, V(1, 2, 3)))
	require.NoError(t, err)
	_, err = rec.Invoke(NewCall(OpCreateObject, "X"))
	require.NoError(t, err)
	log, err := rec.Stop()
	require.NoError(t, err)
	require.Equal(t, 2, log.Len())

	// Reversed recording order still puts the camera first.
	reversed := NewCommandLog(log.Session(), log.RecordedAt(), log.At(1), log.At(0))
	plan := Plan(reversed, Parallel)
	assert.Equal(t, OpSetCameraPosition, plan[0].Op())
	assert.Equal(t, OpCreateObject, plan[1].Op())
}

func TestInstructionIsImmutable(t *testing.T) {
	in := NewInstruction(OpSetCameraFOV, 0, []any{30}, map[string]any{"k": 1})
	args := in.Args()
	args[0] = 99.0
	kw := in.Kwargs()
	kw["k"] = 2.0
	assert.Equal(t, 30.0, in.Args()[0])
	assert.Equal(t, 1.0, in.Kwargs()["k"])
}
