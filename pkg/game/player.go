package game

import (
	"math"
	"math/rand"

	"github.com/cbodonnell/leglesslizard/pkg/collisions"
	"github.com/cbodonnell/leglesslizard/pkg/game/buffs"
	"github.com/cbodonnell/leglesslizard/pkg/game/constants"
	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/cbodonnell/leglesslizard/pkg/log"
)

// PhysicsEngine moves players and resolves their collisions.
type PhysicsEngine struct {
	config Config
	rng    *rand.Rand
}

func NewPhysicsEngine(config Config, rng *rand.Rand) *PhysicsEngine {
	return &PhysicsEngine{
		config: config,
		rng:    rng,
	}
}

// TrailCapacity is the number of steps a trail keeps at the given step length.
func TrailCapacity(stepLength float64) int {
	capacity := int(math.Pow(stepLength, constants.TrailLengthExponent))
	if capacity < constants.MinTrailSteps {
		return constants.MinTrailSteps
	}
	return capacity
}

// Step advances every player by one step and resolves the resulting collisions.
// All players move before any collision is checked, so the outcome does not
// depend on the order players joined in.
func (e *PhysicsEngine) Step(state *types.GameState) {
	for _, player := range state.Players {
		e.advance(player)
	}

	hits := detectPlayerCollisions(state.Players)

	consumed := make(map[string]struct{})
	for _, player := range state.Players {
		if other, hit := hits[player.ID]; hit {
			log.Debug("Player %s collided with %s", player.Name, other)
			e.reset(state, player)
			continue
		}

		e.pickUpConsumables(state, player, consumed)

		if from, to, ok := player.LastSegment(); ok && state.Bounds.SegmentLeaves(from, to) {
			log.Debug("Player %s left the map", player.Name)
			e.reset(state, player)
		}
	}
	state.RemoveConsumables(consumed)
}

// advance appends a step along the current heading, trims the trail and decays the step length.
func (e *PhysicsEngine) advance(player *types.PlayerState) {
	stepLength := player.StepLength
	player.Steps = append(player.Steps, player.Head().Add(kinematic.Displacement(player.Angle, stepLength)))
	player.Spawned = true

	if capacity := TrailCapacity(stepLength); len(player.Steps) > capacity {
		n := copy(player.Steps, player.Steps[len(player.Steps)-capacity:])
		player.Steps = player.Steps[:n]
	}

	player.StepLength = math.Max(stepLength*e.config.StepLengthDecay, e.config.MinStepLength)
}

// detectPlayerCollisions maps every player whose newest segment crosses a trail
// to the name of the trail's owner. Ghosts neither collide nor can be collided with.
func detectPlayerCollisions(players []*types.PlayerState) map[string]string {
	hits := make(map[string]string)
	for _, player := range players {
		if player.IsGhost() {
			continue
		}
		from, to, ok := player.LastSegment()
		if !ok {
			continue
		}

		for _, other := range players {
			if other == player {
				if len(player.Steps) < 3 {
					continue
				}
				// the newest segment itself is excluded
				if trailIntersects(from, to, player.Steps[:len(player.Steps)-1]) {
					hits[player.ID] = other.Name
					break
				}
				continue
			}
			if other.IsGhost() {
				continue
			}
			if trailIntersects(from, to, other.Steps) {
				hits[player.ID] = other.Name
				break
			}
		}
	}
	return hits
}

// trailIntersects reports whether the segment from-to crosses any segment of the trail.
func trailIntersects(from, to kinematic.Vector, steps []kinematic.Vector) bool {
	for i := 1; i < len(steps); i++ {
		if collisions.SegmentsIntersect(from, to, steps[i-1], steps[i]) {
			return true
		}
	}
	return false
}

// pickUpConsumables consumes every consumable under the player's head that no
// other player consumed this tick.
func (e *PhysicsEngine) pickUpConsumables(state *types.GameState, player *types.PlayerState, consumed map[string]struct{}) {
	head := player.Head()
	candidates := state.ConsumableSpace.Candidates(head)
	if len(candidates) == 0 {
		return
	}

	// iterate the state rather than the candidate set to keep pickups in spawn order
	for _, c := range state.Consumables {
		if _, ok := candidates[c.ID]; !ok {
			continue
		}
		if _, ok := consumed[c.ID]; ok {
			continue
		}
		if !collisions.PointInsideCircle(head, c.Position, c.Size) {
			continue
		}

		e.consume(state, player, c)
		consumed[c.ID] = struct{}{}
	}
}

func (e *PhysicsEngine) consume(state *types.GameState, player *types.PlayerState, c *types.Consumable) {
	definition := c.Definition()
	log.Trace("Player %s picked up %s %s", player.Name, c.Type, c.ID)

	if definition.ChangesPlayerSize() {
		player.StepLength += definition.SizeEffect(c.SizeMultiplier()) * definition.PlayerSizeDiff
		player.StepLength = math.Max(player.StepLength, e.config.MinStepLengthAfterPickup)
	}

	if definition.GrantsBuff() {
		buffs.Grant(state, player, definition.Buff)
	}
}

// reset respawns the player at a random point with the minimum step length.
func (e *PhysicsEngine) reset(state *types.GameState, player *types.PlayerState) {
	player.Reset(state.Bounds.RandomPoint(e.rng), e.config.MinStepLength)
}
