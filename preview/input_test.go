package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/orrery"
)

func TestControlDeltas(t *testing.T) {
	move, dz := controls{right: true, up: true}.deltas(0.5, 1)
	if move != orrery.V(4, 4, 0) {
		t.Errorf("move = %v, want (4, 4, 0)", move)
	}
	if dz != 0 {
		t.Errorf("dzoom = %v, want 0", dz)
	}

	move, _ = controls{left: true}.deltas(0.5, 2)
	if move != orrery.V(-2, 0, 0) {
		t.Errorf("zoomed move = %v, want (-2, 0, 0)", move)
	}

	move, _ = controls{left: true, right: true}.deltas(1, 0)
	if move != (orrery.Vec3{}) {
		t.Errorf("opposite keys move = %v, want zero", move)
	}

	_, dz = controls{zoomIn: true, wheel: 2}.deltas(1, 1)
	assertNear(t, "dzoom", dz, zoomSpeed+2*wheelStep)
}

func TestApplyControlsMovesCamera(t *testing.T) {
	e := orrery.New(orrery.Config{})
	g := New(e)
	g.apply(controls{down: true, zoomOut: true, screenshot: true}, 1)

	if got := e.Camera().Position(); got != orrery.V(0, -panSpeed, 0) {
		t.Errorf("camera position = %v, want (0, %v, 0)", got, -panSpeed)
	}
	if len(g.shots) != 1 || g.shots[0] != "preview" {
		t.Errorf("shots = %v, want [preview]", g.shots)
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := map[string]string{
		"":             "unlabeled",
		"  ":           "unlabeled",
		"earth-1.0":    "earth-1.0",
		"sun / corona": "sun___corona",
		" frame 3 ":    "frame_3",
	}
	for in, want := range tests {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{
		100, 50, 0, 200,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}, 3, 1)
	want := []byte{
		127, 63, 0, 200,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], b)
		}
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, unpremultiply(make([]byte, 4*4), 2, 2)); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 2 || cfg.Height != 2 {
		t.Errorf("size = %dx%d, want 2x2", cfg.Width, cfg.Height)
	}
}
