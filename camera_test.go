package orrery

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestCameraDefaults(t *testing.T) {
	e := newTestEngine()
	info := e.Camera().Info()
	if info.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", info.Zoom)
	}
	if info.FOV != 60 {
		t.Errorf("FOV = %v, want 60", info.FOV)
	}
	if info.Bound {
		t.Error("headless camera should be unbound")
	}
}

func TestCameraBindPushesState(t *testing.T) {
	_, b := newBackedEngine()
	cam := b.Camera()
	if cam == nil {
		t.Fatal("camera not resolved")
	}
	if v, _ := cam.Value(PropCameraFOV); v != 60.0 {
		t.Errorf("camera_fov = %v, want 60", v)
	}
}

func TestCameraSetPositionImmediate(t *testing.T) {
	e, b := newBackedEngine()
	if err := e.Camera().SetPosition(V(1, 2, 3)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	v, _ := b.Camera().Value(PropCameraPosition)
	assertVec(t, "applied", v.(Vec3), V(1, 2, 3))
	if e.Camera().Animating() {
		t.Error("zero duration should not tween")
	}
}

func TestCameraSetPositionTweens(t *testing.T) {
	e, b := newBackedEngine()
	e.Animator().SetDuration(2)
	cam := e.Camera()
	if err := cam.SetPosition(V(10, 0, 0)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	assertVec(t, "logical", cam.Position(), V(10, 0, 0))
	if !cam.Animating() {
		t.Fatal("expected a running tween")
	}
	// bind pushed the origin; the target is not applied until Update.
	v, _ := b.Camera().Value(PropCameraPosition)
	assertVec(t, "before update", v.(Vec3), Vec3{})

	if err := e.Update(1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	mid := cam.DisplayedPosition()
	if !approxEqual(mid[0], 5, 1e-4) {
		t.Errorf("halfway x = %v, want 5", mid[0])
	}

	if err := e.Update(1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	assertVec(t, "final", cam.DisplayedPosition(), V(10, 0, 0))
	if cam.Animating() {
		t.Error("tween should be finished")
	}
	v, _ = b.Camera().Value(PropCameraPosition)
	assertVec(t, "applied", v.(Vec3), V(10, 0, 0))
}

func TestCameraUnboundSkipsTween(t *testing.T) {
	e := newTestEngine()
	e.Animator().SetDuration(5)
	if err := e.Camera().SetPosition(V(3, 3, 3)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	assertVec(t, "displayed", e.Camera().DisplayedPosition(), V(3, 3, 3))
}

func TestCameraZoomBy(t *testing.T) {
	e, b := newBackedEngine()
	cam := e.Camera()
	if err := cam.ZoomBy(20); err != nil {
		t.Fatalf("ZoomBy: %v", err)
	}
	assertNear(t, "clamped high", cam.Zoom(), maxCameraZoom)
	v, _ := b.Camera().Value(PropCameraDistance)
	assertNear(t, "distance", v.(float64), 1000)

	if err := cam.ZoomBy(-50); err != nil {
		t.Fatalf("ZoomBy: %v", err)
	}
	assertNear(t, "clamped low", cam.Zoom(), minCameraZoom)
}

func TestCameraMoveRotate(t *testing.T) {
	e := newTestEngine()
	cam := e.Camera()
	_ = cam.SetPosition(V(1, 1, 1))
	_ = cam.Move(V(1, 0, -1))
	assertVec(t, "position", cam.Position(), V(2, 1, 0))
	_ = cam.SetRotation(V(10, 0, 0))
	_ = cam.Rotate(V(5, 5, 0))
	assertVec(t, "rotation", cam.Rotation(), V(15, 5, 0))
}

func TestCameraLookAtTooClose(t *testing.T) {
	e := newTestEngine()
	err := e.Camera().LookAt(V(0, 0, 0.0001))
	if !errors.Is(err, ErrBadArgument) {
		t.Errorf("err = %v, want ErrBadArgument", err)
	}
}

func TestCameraLookAtUsesTarget(t *testing.T) {
	e, b := newBackedEngine()
	if err := e.Camera().LookAt(V(10, 0, 0)); err != nil {
		t.Fatalf("LookAt: %v", err)
	}
	v, ok := b.Camera().Value(PropCameraTarget)
	if !ok {
		t.Fatal("camera_target not applied")
	}
	assertVec(t, "target", v.(Vec3), V(90, 0, 0))
}

func TestCameraLookAtFallsBackToRotation(t *testing.T) {
	b := NewMemoryBackend()
	b.SetCapabilities(KindCamera, CameraCapabilities.Without(PropCameraTarget))
	e := New(Config{Backend: b})
	if err := e.Camera().LookAt(V(10, 0, 0)); err != nil {
		t.Fatalf("LookAt: %v", err)
	}
	assertVec(t, "rotation", e.Camera().Rotation(), V(90, 0, 0))
	if _, ok := b.Camera().Value(PropCameraTarget); ok {
		t.Error("camera_target applied to an incapable camera")
	}
}

func TestCameraOrbit(t *testing.T) {
	e, b := newBackedEngine()
	if err := e.Camera().Orbit(V(0, 0, 0), 10, 0, 0); err != nil {
		t.Fatalf("Orbit: %v", err)
	}
	assertVec(t, "position", e.Camera().Position(), V(0, 0, 10))
	v, _ := b.Camera().Value(PropCameraTarget)
	assertNear(t, "azimuth", math.Abs(v.(Vec3)[0]), 180)
}

func TestCameraPositionLBR(t *testing.T) {
	e, b := newBackedEngine()
	if err := e.Camera().SetPositionLBR(45, 90, 2); err != nil {
		t.Fatalf("SetPositionLBR: %v", err)
	}
	v, _ := b.Camera().Value(PropCameraPositionLBR)
	assertVec(t, "lbr", v.(Vec3), V(45, 90, 2))
}

func TestCameraInvokeWithTarget(t *testing.T) {
	e, b := newBackedEngine()
	if _, err := e.Invoke(NewCall(OpSetCameraPosition, V(0, 0, -5), V(30, 10, 0))); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	v, _ := b.Camera().Value(PropCameraTarget)
	assertVec(t, "target", v.(Vec3), V(30, 10, 0))
	if info := e.Camera().Info(); info.Target != V(30, 10, 0) {
		t.Errorf("Info().Target = %v, want (30, 10, 0)", info.Target)
	}
}
