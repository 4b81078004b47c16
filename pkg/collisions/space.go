package collisions

import (
	"math"

	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/solarlune/resolv"
)

const (
	CollisionSpaceTagConsumable string = "consumable"
	CollisionSpaceTagProbe      string = "probe"

	// DefaultCellSize is the resolv cell edge used for the consumable space
	DefaultCellSize int = 50
)

// ConsumableSpace is a broad-phase index of consumables.
// Candidates returned by it must still be confirmed with PointInsideCircle.
type ConsumableSpace struct {
	bounds  Bounds
	space   *resolv.Space
	objects map[string]*resolv.Object
	ids     map[*resolv.Object]string
}

func NewConsumableSpace(bounds Bounds, cellSize int) *ConsumableSpace {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	width := int(math.Ceil(bounds.Width()))
	height := int(math.Ceil(bounds.Height()))
	return &ConsumableSpace{
		bounds:  bounds,
		space:   resolv.NewSpace(width, height, cellSize, cellSize),
		objects: make(map[string]*resolv.Object),
		ids:     make(map[*resolv.Object]string),
	}
}

// Upsert adds the consumable to the space or moves it if it is already present.
func (s *ConsumableSpace) Upsert(id string, center kinematic.Vector, radius float64) {
	// padded by one unit so points exactly on the circle still share a cell
	x := center.X - radius - 1 - s.bounds.Min.X
	y := center.Y - radius - 1 - s.bounds.Min.Y
	size := 2*radius + 2

	if object, ok := s.objects[id]; ok {
		object.Position.X = x
		object.Position.Y = y
		object.Update()
		return
	}

	object := resolv.NewObject(x, y, size, size, CollisionSpaceTagConsumable)
	s.space.Add(object)
	s.objects[id] = object
	s.ids[object] = id
}

// Remove drops the consumable from the space. Unknown ids are ignored.
func (s *ConsumableSpace) Remove(id string) {
	object, ok := s.objects[id]
	if !ok {
		return
	}
	s.space.Remove(object)
	delete(s.objects, id)
	delete(s.ids, object)
}

// Len returns the number of indexed consumables.
func (s *ConsumableSpace) Len() int {
	return len(s.objects)
}

// Candidates returns the ids of consumables sharing a cell with point.
// A point outside the bounds, or on their max edges, has no cell, so every
// consumable is a candidate.
func (s *ConsumableSpace) Candidates(point kinematic.Vector) map[string]struct{} {
	candidates := make(map[string]struct{})
	if !s.bounds.Contains(point) || point.X >= s.bounds.Max.X || point.Y >= s.bounds.Max.Y {
		for id := range s.objects {
			candidates[id] = struct{}{}
		}
		return candidates
	}

	probe := resolv.NewObject(point.X-s.bounds.Min.X, point.Y-s.bounds.Min.Y, 1, 1, CollisionSpaceTagProbe)
	s.space.Add(probe)
	defer s.space.Remove(probe)

	collision := probe.Check(0, 0, CollisionSpaceTagConsumable)
	if collision == nil {
		return candidates
	}
	for _, object := range collision.Objects {
		if id, ok := s.ids[object]; ok {
			candidates[id] = struct{}{}
		}
	}
	return candidates
}
