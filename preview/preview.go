// Package preview shows an orrery engine in an Ebitengine window: a top-down
// view down the z axis, one marker per node, sized by world scale and
// colored by the kind of its first visual component.
package preview

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/orrery"
)

const (
	defaultWidth         = 960
	defaultHeight        = 720
	defaultPixelsPerUnit = 24
	minMarkerSize        = 3
	maxMarkerSize        = 64
)

var background = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}

var kindColors = map[orrery.ObjectKind]color.RGBA{
	orrery.KindSun:           {R: 0xff, G: 0xd2, B: 0x4a, A: 0xff},
	orrery.KindPlanet:        {R: 0x50, G: 0xb4, B: 0xff, A: 0xff},
	orrery.KindAsteroid:      {R: 0x9a, G: 0x8c, B: 0x7c, A: 0xff},
	orrery.KindComet:         {R: 0xc8, G: 0xf0, B: 0xff, A: 0xff},
	orrery.KindSatellite:     {R: 0x7c, G: 0xe0, B: 0x8a, A: 0xff},
	orrery.KindConstellation: {R: 0xb4, G: 0x8c, B: 0xff, A: 0xff},
	orrery.KindStars:         {R: 0xff, G: 0xff, B: 0xff, A: 0x80},
	orrery.KindText:          {R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
}

var plainColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// Projector maps world positions to window pixels for a camera looking down
// the z axis. The camera heading rotates the view.
type Projector struct {
	Width, Height int
	PixelsPerUnit float64
}

// Project returns the window position of world as seen from cam.
func (p Projector) Project(world orrery.Vec3, cam orrery.CameraInfo) (x, y float64) {
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	offset := mgl64.Vec2{world.X() - cam.Position.X(), world.Y() - cam.Position.Y()}
	offset = mgl64.Rotate2D(-mgl64.DegToRad(cam.Rotation.X())).Mul2x1(offset)
	offset = offset.Mul(p.PixelsPerUnit * zoom)
	return float64(p.Width)/2 + offset.X(), float64(p.Height)/2 - offset.Y()
}

// Scale returns the pixel size of a world length seen from cam.
func (p Projector) Scale(length float64, cam orrery.CameraInfo) float64 {
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return length * p.PixelsPerUnit * zoom
}

// Marker is one node as drawn.
type Marker struct {
	ID    orrery.NodeID
	Label string
	X, Y  float64
	Size  float64
	Color color.RGBA
}

type kinded interface {
	Kind() orrery.ObjectKind
}

// Markers projects every node of e, parents before children.
func (p Projector) Markers(e *orrery.Engine, cam orrery.CameraInfo) []Marker {
	var out []Marker
	var walk func(n *orrery.Node)
	walk = func(n *orrery.Node) {
		x, y := p.Project(n.WorldPosition(), cam)
		size := min(max(p.Scale(n.WorldTransform().AverageScale(), cam), minMarkerSize), maxMarkerSize)
		out = append(out, Marker{
			ID:    n.ID,
			Label: n.Name,
			X:     x,
			Y:     y,
			Size:  size,
			Color: markerColor(n),
		})
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, root := range e.Roots() {
		walk(root)
	}
	return out
}

func markerColor(n *orrery.Node) color.RGBA {
	for _, name := range n.ComponentNames() {
		if k, ok := n.GetComponent(name).(kinded); ok {
			if c, ok := kindColors[k.Kind()]; ok {
				return c
			}
		}
	}
	return plainColor
}

// Game implements ebiten.Game over an engine. Update reads the camera
// controls and advances the engine by one tick; Draw renders its markers.
type Game struct {
	engine   *orrery.Engine
	cmd      *orrery.Commands
	log      *zap.Logger
	proj     Projector
	labels   bool
	stats    bool
	controls bool
	pixel    *ebiten.Image
	shots    []string
	shotDir  string
	// OnUpdate, if set, runs before each engine tick.
	OnUpdate func(e *orrery.Engine) error
}

// Option configures a Game.
type Option func(*Game)

// WithSize sets the window size in pixels.
func WithSize(w, h int) Option {
	return func(g *Game) { g.proj.Width, g.proj.Height = w, h }
}

// WithPixelsPerUnit sets how many pixels one world unit spans at zoom 1.
func WithPixelsPerUnit(ppu float64) Option {
	return func(g *Game) { g.proj.PixelsPerUnit = ppu }
}

// WithLabels toggles node name labels.
func WithLabels(on bool) Option {
	return func(g *Game) { g.labels = on }
}

// WithStats toggles the FPS and node count line.
func WithStats(on bool) Option {
	return func(g *Game) { g.stats = on }
}

// WithControls toggles keyboard and wheel camera controls: arrows or WASD
// pan, +/- and the wheel zoom, P takes a screenshot.
func WithControls(on bool) Option {
	return func(g *Game) { g.controls = on }
}

// WithScreenshotDir sets where screenshots are written.
func WithScreenshotDir(dir string) Option {
	return func(g *Game) { g.shotDir = dir }
}

// WithLogger sets the logger. It defaults to the engine's.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) { g.log = l }
}

// New returns a preview of e.
func New(e *orrery.Engine, opts ...Option) *Game {
	g := &Game{
		engine:   e,
		cmd:      orrery.NewCommands(e),
		log:      e.Logger(),
		proj:     Projector{Width: defaultWidth, Height: defaultHeight, PixelsPerUnit: defaultPixelsPerUnit},
		labels:   true,
		stats:    true,
		controls: true,
		shotDir:  "screenshots",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Projector returns the game's projection.
func (g *Game) Projector() Projector { return g.proj }

// Camera returns the camera state to draw with: the displayed position, which
// trails the target while a tween runs.
func (g *Game) Camera() orrery.CameraInfo {
	cam := g.engine.Camera().Info()
	cam.Position = g.engine.Camera().DisplayedPosition()
	return cam
}

func (g *Game) Update() error {
	if g.OnUpdate != nil {
		if err := g.OnUpdate(g.engine); err != nil {
			return err
		}
	}
	dt := 1 / float64(ebiten.TPS())
	if g.controls {
		g.apply(readControls(), dt)
	}
	return g.engine.Update(dt)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(1, 1)
		g.pixel.Fill(color.White)
	}
	screen.Fill(background)

	markers := g.proj.Markers(g.engine, g.Camera())
	var op ebiten.DrawImageOptions
	for _, m := range markers {
		op.GeoM.Reset()
		op.GeoM.Scale(m.Size, m.Size)
		op.GeoM.Translate(m.X-m.Size/2, m.Y-m.Size/2)
		op.ColorScale.Reset()
		op.ColorScale.ScaleWithColor(m.Color)
		screen.DrawImage(g.pixel, &op)
		if g.labels {
			ebitenutil.DebugPrintAt(screen, m.Label, int(m.X+m.Size/2)+2, int(m.Y-m.Size/2))
		}
	}
	if g.stats {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  nodes: %d  zoom: %.2f",
			ebiten.ActualFPS(), len(markers), g.engine.Camera().Zoom()), 4, 4)
	}
	g.flushScreenshots(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.proj.Width, g.proj.Height
}

// Run opens a window titled title and runs g until it is closed or Update
// returns an error.
func Run(g *Game, title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.proj.Width, g.proj.Height)
	return ebiten.RunGame(g)
}
