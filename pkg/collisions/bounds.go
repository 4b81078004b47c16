package collisions

import (
	"math"
	"math/rand"

	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	Min kinematic.Vector
	Max kinematic.Vector
}

// NewSquareBounds returns bounds of the given side length centered on the origin.
func NewSquareBounds(size float64) Bounds {
	half := size / 2
	return Bounds{
		Min: kinematic.Vector{X: -half, Y: -half},
		Max: kinematic.Vector{X: half, Y: half},
	}
}

func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Contains reports whether p lies inside the bounds, edges included.
func (b Bounds) Contains(p kinematic.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Clamp returns the point of the bounds closest to p.
func (b Bounds) Clamp(p kinematic.Vector) kinematic.Vector {
	return kinematic.Vector{
		X: math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		Y: math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
	}
}

// Edges returns the four boundary edges as segment endpoint pairs.
func (b Bounds) Edges() [4][2]kinematic.Vector {
	topLeft := kinematic.Vector{X: b.Min.X, Y: b.Min.Y}
	topRight := kinematic.Vector{X: b.Max.X, Y: b.Min.Y}
	bottomRight := kinematic.Vector{X: b.Max.X, Y: b.Max.Y}
	bottomLeft := kinematic.Vector{X: b.Min.X, Y: b.Max.Y}
	return [4][2]kinematic.Vector{
		{topLeft, topRight},
		{topRight, bottomRight},
		{bottomRight, bottomLeft},
		{bottomLeft, topLeft},
	}
}

// SegmentLeaves reports whether the segment from a to b crosses an edge or ends outside.
func (b Bounds) SegmentLeaves(from, to kinematic.Vector) bool {
	for _, edge := range b.Edges() {
		if SegmentsIntersect(from, to, edge[0], edge[1]) {
			return true
		}
	}
	return !b.Contains(to)
}

// RandomPoint returns a point drawn uniformly from the bounds.
func (b Bounds) RandomPoint(rng *rand.Rand) kinematic.Vector {
	return kinematic.Vector{
		X: b.Min.X + rng.Float64()*b.Width(),
		Y: b.Min.Y + rng.Float64()*b.Height(),
	}
}
