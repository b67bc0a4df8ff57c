package preview

import (
	"math"
	"testing"

	"github.com/phanxgames/orrery"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestProjectCenter(t *testing.T) {
	p := Projector{Width: 200, Height: 100, PixelsPerUnit: 10}
	cam := orrery.CameraInfo{Position: orrery.V(3, 4, -10), Zoom: 1}
	x, y := p.Project(orrery.V(3, 4, 0), cam)
	assertNear(t, "x", x, 100)
	assertNear(t, "y", y, 50)
}

func TestProjectOffsetAndZoom(t *testing.T) {
	p := Projector{Width: 200, Height: 100, PixelsPerUnit: 10}
	cam := orrery.CameraInfo{Zoom: 2}
	x, y := p.Project(orrery.V(1, 1, 0), cam)
	assertNear(t, "x", x, 120)
	// Window y grows downward.
	assertNear(t, "y", y, 30)
}

func TestProjectZeroZoomFallsBack(t *testing.T) {
	p := Projector{Width: 100, Height: 100, PixelsPerUnit: 10}
	x, _ := p.Project(orrery.V(1, 0, 0), orrery.CameraInfo{})
	assertNear(t, "x", x, 60)
	assertNear(t, "scale", p.Scale(2, orrery.CameraInfo{}), 20)
}

func TestProjectHeading(t *testing.T) {
	p := Projector{Width: 100, Height: 100, PixelsPerUnit: 10}
	cam := orrery.CameraInfo{Zoom: 1, Rotation: orrery.V(90, 0, 0)}
	// Heading 90 turns the view so +y points right.
	x, y := p.Project(orrery.V(0, 1, 0), cam)
	assertNear(t, "x", x, 60)
	assertNear(t, "y", y, 50)
}

func TestMarkers(t *testing.T) {
	e := orrery.New(orrery.Config{})
	sun := e.CreateObject("Sun")
	earth := e.CreateObject("Earth")
	sun.AddChild(earth)
	earth.SetLocalPosition(orrery.V(2, 0, 0))
	if err := earth.SetLocalScale(orrery.V(100, 100, 100)); err != nil {
		t.Fatal(err)
	}
	earth.AddComponent(orrery.NewPlanet("Earth"))
	e.CreateObject("loose")

	p := Projector{Width: 100, Height: 100, PixelsPerUnit: 10}
	ms := p.Markers(e, orrery.CameraInfo{Zoom: 1})
	if len(ms) != 3 {
		t.Fatalf("len(markers) = %d, want 3", len(ms))
	}
	if ms[0].Label != "Sun" || ms[1].Label != "Earth" || ms[2].Label != "loose" {
		t.Errorf("labels = %q %q %q, want Sun Earth loose", ms[0].Label, ms[1].Label, ms[2].Label)
	}
	assertNear(t, "earth x", ms[1].X, 70)
	assertNear(t, "earth size", ms[1].Size, maxMarkerSize)
	assertNear(t, "sun size", ms[0].Size, 10)
	if ms[1].Color != kindColors[orrery.KindPlanet] {
		t.Errorf("earth color = %v, want planet color", ms[1].Color)
	}
	if ms[0].Color != plainColor {
		t.Errorf("sun color = %v, want plain (no component)", ms[0].Color)
	}
}

func TestGameDefaults(t *testing.T) {
	g := New(orrery.New(orrery.Config{}), WithSize(320, 240), WithLabels(false))
	w, h := g.Layout(0, 0)
	if w != 320 || h != 240 {
		t.Errorf("Layout = %d,%d, want 320,240", w, h)
	}
	if g.labels {
		t.Error("labels should be off")
	}
	if g.Projector().PixelsPerUnit != defaultPixelsPerUnit {
		t.Errorf("PixelsPerUnit = %v, want %v", g.Projector().PixelsPerUnit, defaultPixelsPerUnit)
	}
	if g.Camera().Zoom != 1 {
		t.Errorf("camera zoom = %v, want 1", g.Camera().Zoom)
	}
}
