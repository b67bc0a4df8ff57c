package preview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/phanxgames/orrery"
)

const (
	panSpeed  = 8   // world units per second at zoom 1
	zoomSpeed = 1.5 // zoom units per second
	wheelStep = 0.1
)

// controls is one tick's input, sampled from the keyboard and wheel.
type controls struct {
	left, right, up, down bool
	zoomIn, zoomOut       bool
	wheel                 float64
	screenshot            bool
}

func readControls() controls {
	_, wy := ebiten.Wheel()
	return controls{
		left:       ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		right:      ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		up:         ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		down:       ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		zoomIn:     ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyKPAdd),
		zoomOut:    ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyKPSubtract),
		wheel:      wy,
		screenshot: inpututil.IsKeyJustPressed(ebiten.KeyP),
	}
}

// deltas returns the camera move and zoom change for one tick of length dt.
// Panning slows down as the camera zooms in so the screen speed stays even.
func (c controls) deltas(dt, zoom float64) (move orrery.Vec3, dzoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	step := panSpeed * dt / zoom
	if c.left {
		move[0] -= step
	}
	if c.right {
		move[0] += step
	}
	if c.up {
		move[1] += step
	}
	if c.down {
		move[1] -= step
	}
	if c.zoomIn {
		dzoom += zoomSpeed * dt
	}
	if c.zoomOut {
		dzoom -= zoomSpeed * dt
	}
	dzoom += c.wheel * wheelStep
	return move, dzoom
}

// apply sends the camera changes through the engine's command client.
func (g *Game) apply(c controls, dt float64) {
	move, dzoom := c.deltas(dt, g.engine.Camera().Zoom())
	if move != (orrery.Vec3{}) {
		if err := g.cmd.MoveCamera(move); err != nil {
			g.log.Warn("move camera", zap.Error(err))
		}
	}
	if dzoom != 0 {
		if err := g.cmd.ZoomCamera(dzoom); err != nil {
			g.log.Warn("zoom camera", zap.Error(err))
		}
	}
	if c.screenshot {
		g.Screenshot("preview")
	}
}
