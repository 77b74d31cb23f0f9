package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ivlev/tourcam/internal/waypoint"
)

// Pose is the live camera placement. Forward is a unit vector; world up is +Y.
type Pose struct {
	Position r3.Vec
	Forward  r3.Vec
}

// PoseAt returns the pose of a camera parked at wp and facing its look-at point.
func PoseAt(wp waypoint.Waypoint) Pose {
	return Pose{Position: wp.Position, Forward: wp.Direction()}
}

// AimPoint is the point one unit ahead of the camera.
func (p Pose) AimPoint() r3.Vec {
	return r3.Add(p.Position, p.Forward)
}

// Yaw is the heading of Forward in the XZ plane, in radians, measured from -Z
// towards +X.
func (p Pose) Yaw() float64 {
	return math.Atan2(p.Forward.X, -p.Forward.Z)
}

// Pitch is the elevation of Forward above the XZ plane, in radians.
func (p Pose) Pitch() float64 {
	return math.Asin(clamp(p.Forward.Y, -1, 1))
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b r3.Vec, t float64) r3.Vec {
	return r3.Vec{
		X: lerp(a.X, b.X, t),
		Y: lerp(a.Y, b.Y, t),
		Z: lerp(a.Z, b.Z, t),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
