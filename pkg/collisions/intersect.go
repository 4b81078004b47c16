package collisions

import (
	"math"

	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

// Epsilon is the tolerance below which two segments are treated as parallel.
const Epsilon = 0.000001

// PointInsideCircle reports whether point lies within radius of center, boundary included.
func PointInsideCircle(point, center kinematic.Vector, radius float64) bool {
	return kinematic.Distance(point, center) <= radius
}

// SegmentsIntersect reports whether segment a1-a2 and segment b1-b2 cross.
// Touching at a single point (an endpoint, or collinear segments meeting end to end)
// is not an intersection.
func SegmentsIntersect(a1, a2, b1, b2 kinematic.Vector) bool {
	denom := (a2.X-a1.X)*(b2.Y-b1.Y) - (a2.Y-a1.Y)*(b2.X-b1.X)
	num1 := (a1.Y-b1.Y)*(b2.X-b1.X) - (a1.X-b1.X)*(b2.Y-b1.Y)
	num2 := (a1.Y-b1.Y)*(a2.X-a1.X) - (a1.X-b1.X)*(a2.Y-a1.Y)

	if !withinEpsilon(denom) {
		r := num1 / denom
		s := num2 / denom
		return r > 0 && r < 1 && s > 0 && s < 1
	}

	// parallel: only collinear segments can still overlap
	if withinEpsilon(num1) || withinEpsilon(num2) {
		return collinearOverlap(a1, a2, b1, b2)
	}
	return false
}

func withinEpsilon(v float64) bool {
	return -Epsilon < v && v < Epsilon
}

// collinearOverlap projects b1 and b2 onto the dominant axis of a1-a2 and checks
// whether the overlap with [0,1] spans more than a single point.
func collinearOverlap(a1, a2, b1, b2 kinematic.Vector) bool {
	dx := a2.X - a1.X
	dy := a2.Y - a1.Y

	var u1, u2 float64
	switch {
	case math.Abs(dx) > math.Abs(dy):
		u1 = (b1.X - a1.X) / dx
		u2 = (b2.X - a1.X) / dx
	case dy != 0:
		u1 = (b1.Y - a1.Y) / dy
		u2 = (b2.Y - a1.Y) / dy
	default:
		// a is a single point
		return false
	}

	lo, hi := math.Min(u1, u2), math.Max(u1, u2)
	start := math.Max(0, lo)
	end := math.Min(1, hi)
	return start < end
}
