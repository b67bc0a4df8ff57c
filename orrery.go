package orrery

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a three-component vector used for positions, Euler rotations in
// degrees, and per-axis scale.
type Vec3 = mgl64.Vec3

// V is shorthand for Vec3{x, y, z}.
func V(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// NodeID identifies a node within one Engine. IDs start at 1; zero means
// "no node".
type NodeID uint64

func (id NodeID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// Transform is a position, rotation (degrees per axis) and scale triple.
// Composition is deliberately non-affine: positions and rotations add per
// axis and scales multiply per axis. Rotation never rotates a child's offset.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// AverageScale returns the mean of the three scale components. Visual
// components forward it to engine objects that only support uniform scale.
func (t Transform) AverageScale() float64 {
	return (t.Scale[0] + t.Scale[1] + t.Scale[2]) / 3
}

// Axis is a bit set of transform axes.
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	if a == 0 {
		return "none"
	}
	s := ""
	for i, name := range [3]string{"x", "y", "z"} {
		if a&(1<<i) != 0 {
			s += name
		}
	}
	return s
}

// ObjectKind names the class of engine object a handle is resolved for.
type ObjectKind string

const (
	KindCamera        ObjectKind = "camera"
	KindPlanet        ObjectKind = "planet"
	KindSun           ObjectKind = "sun"
	KindConstellation ObjectKind = "constellation"
	KindStars         ObjectKind = "stars"
	KindText          ObjectKind = "text"
	KindAsteroid      ObjectKind = "asteroid"
	KindComet         ObjectKind = "comet"
	KindSatellite     ObjectKind = "satellite"
)
