package kinematic

// This package includes the movement model shared by the physics engine and the bots.

import (
	"math"
)

// Vector is a point or displacement in map space.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Length returns the euclidean length of v.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Vector) float64 {
	return a.Sub(b).Length()
}

// Displacement returns the offset covered by one step of the given length along angle.
func Displacement(angle float64, length float64) Vector {
	return Vector{
		X: math.Cos(angle) * length,
		Y: math.Sin(angle) * length,
	}
}

// Bearing returns the angle of the direction from one point to another.
func Bearing(from, to Vector) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// NormalizeAngle maps an angle into (-π, π].
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	a := math.Mod(angle, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// ClampAngle limits angle to at most fov away from reference, measured the short way round.
func ClampAngle(angle, reference, fov float64) float64 {
	diff := NormalizeAngle(angle - reference)
	if diff > fov {
		return reference + fov
	}
	if diff < -fov {
		return reference - fov
	}
	return angle
}
