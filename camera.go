package orrery

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	minCameraZoom = 0.1
	maxCameraZoom = 10.0

	// lookAtEpsilon is the smallest camera-to-target distance that still
	// defines a direction.
	lookAtEpsilon = 0.001
)

// Camera is the engine's single viewpoint. Its logical state changes at
// once; the engine-side camera receives the changes through its handle,
// with position changes tweened over the animator duration.
type Camera struct {
	position Vec3
	rotation Vec3
	target   Vec3
	zoom     float64
	fov      float64
	focus    float64

	handle   Handle
	caps     CapabilitySet
	animator *Animator

	tween     *vecTween
	displayed Vec3
}

func newCamera(animator *Animator) *Camera {
	return &Camera{zoom: 1, fov: 60, animator: animator}
}

// bind attaches the engine-side camera and pushes the current state to it.
func (c *Camera) bind(h Handle) error {
	c.handle = h
	c.caps = h.Capabilities()
	c.displayed = c.position
	return firstErr(
		c.apply(PropCameraPosition, c.position),
		c.apply(PropCameraRotation, c.rotation),
		c.apply(PropCameraFOV, c.fov),
	)
}

// CameraInfo is a snapshot of the camera, returned by get_camera_info.
type CameraInfo struct {
	Position Vec3    `json:"position" yaml:"position"`
	Rotation Vec3    `json:"rotation" yaml:"rotation"`
	Target   Vec3    `json:"target" yaml:"target"`
	Zoom     float64 `json:"zoom" yaml:"zoom"`
	FOV      float64 `json:"fov" yaml:"fov"`
	Focus    float64 `json:"focus" yaml:"focus"`
	Bound    bool    `json:"bound" yaml:"bound"`
}

// Info returns a snapshot of the camera state.
func (c *Camera) Info() CameraInfo {
	return CameraInfo{
		Position: c.position,
		Rotation: c.rotation,
		Target:   c.target,
		Zoom:     c.zoom,
		FOV:      c.fov,
		Focus:    c.focus,
		Bound:    c.handle != nil,
	}
}

func (c *Camera) Position() Vec3 { return c.position }
func (c *Camera) Rotation() Vec3 { return c.rotation }
func (c *Camera) Zoom() float64  { return c.zoom }

// DisplayedPosition returns the position most recently sent to the
// engine-side camera, which lags Position while a tween is running.
func (c *Camera) DisplayedPosition() Vec3 { return c.displayed }

// Animating reports whether a position tween is in progress.
func (c *Camera) Animating() bool { return c.tween != nil }

// SetPosition moves the camera to p.
func (c *Camera) SetPosition(p Vec3) error {
	c.position = p
	if c.handle == nil || !c.caps.Has(PropCameraPosition) {
		c.displayed = p
		return nil
	}
	if c.animator.Duration() > 0 {
		c.tween = c.animator.tween(c.displayed, p)
		return nil
	}
	c.tween = nil
	c.displayed = p
	return c.apply(PropCameraPosition, p)
}

// SetPositionTarget moves the camera to p and points it at target (azimuth,
// height in degrees).
func (c *Camera) SetPositionTarget(p, target Vec3) error {
	if err := c.SetPosition(p); err != nil {
		return err
	}
	return c.setTarget(target)
}

// SetPositionLBR places the camera by latitude, longitude and radius. The
// logical position records the LBR triple.
func (c *Camera) SetPositionLBR(lat, lon, r float64) error {
	lbr := Vec3{lat, lon, r}
	c.position = lbr
	c.displayed = lbr
	return c.apply(PropCameraPositionLBR, lbr)
}

// SetRotation sets heading, pitch and roll in degrees.
func (c *Camera) SetRotation(hpr Vec3) error {
	c.rotation = hpr
	return c.apply(PropCameraRotation, hpr)
}

// SetZoom sets the zoom level. The engine-side camera receives it as a
// distance of zoom*100.
func (c *Camera) SetZoom(z float64) error {
	c.zoom = z
	return c.apply(PropCameraDistance, z*100)
}

// SetFOV sets the field of view in degrees.
func (c *Camera) SetFOV(fov float64) error {
	c.fov = fov
	return c.apply(PropCameraFOV, fov)
}

// SetFocus sets the focus angle in degrees.
func (c *Camera) SetFocus(deg float64) error {
	c.focus = deg
	return c.apply(PropCameraFocus, deg)
}

// Move offsets the position by delta.
func (c *Camera) Move(delta Vec3) error {
	return c.SetPosition(c.position.Add(delta))
}

// Rotate offsets the rotation by delta.
func (c *Camera) Rotate(delta Vec3) error {
	return c.SetRotation(c.rotation.Add(delta))
}

// ZoomBy offsets the zoom by delta, clamped to [0.1, 10].
func (c *Camera) ZoomBy(delta float64) error {
	return c.SetZoom(mgl64.Clamp(c.zoom+delta, minCameraZoom, maxCameraZoom))
}

// LookAt points the camera at p. Cameras that accept a target receive the
// azimuth and height of p; others are rotated instead.
func (c *Camera) LookAt(p Vec3) error {
	dir := p.Sub(c.position)
	dist := dir.Len()
	if dist < lookAtEpsilon {
		return fmt.Errorf("%w: look_at: camera is %g from target", ErrBadArgument, dist)
	}
	if c.caps.Has(PropCameraTarget) {
		return c.setTarget(targetAngles(dir, dist))
	}
	heading := math.Atan2(dir[0], dir[2])
	pitch := math.Asin(-dir[1] / dist)
	return c.SetRotation(Vec3{mgl64.RadToDeg(heading), mgl64.RadToDeg(pitch), 0})
}

// Orbit places the camera distance away from p at the given heading and
// pitch (degrees) and points it at p.
func (c *Camera) Orbit(p Vec3, distance, heading, pitch float64) error {
	h := mgl64.DegToRad(heading)
	pt := mgl64.DegToRad(pitch)
	pos := Vec3{
		p[0] + distance*math.Sin(h)*math.Cos(pt),
		p[1] + distance*math.Sin(pt),
		p[2] + distance*math.Cos(h)*math.Cos(pt),
	}
	if err := c.SetPosition(pos); err != nil {
		return err
	}
	if math.Abs(distance) < lookAtEpsilon {
		return nil
	}
	return c.LookAt(p)
}

func targetAngles(dir Vec3, dist float64) Vec3 {
	azimuth := math.Atan2(dir[0], dir[2])
	height := math.Asin(dir[1] / dist)
	return Vec3{mgl64.RadToDeg(azimuth), mgl64.RadToDeg(height), 0}
}

func (c *Camera) setTarget(t Vec3) error {
	c.target = t
	return c.apply(PropCameraTarget, t)
}

// update advances a running position tween.
func (c *Camera) update(dt float64) error {
	if c.tween == nil {
		return nil
	}
	c.displayed = c.tween.update(dt, c.position)
	if c.tween.done {
		c.tween = nil
	}
	return c.apply(PropCameraPosition, c.displayed)
}

func (c *Camera) apply(p Property, v any) error {
	if c.handle == nil || !c.caps.Has(p) {
		return nil
	}
	if err := c.handle.Apply(p, v); err != nil {
		return fmt.Errorf("camera: apply %s: %w", p, err)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
