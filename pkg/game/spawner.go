package game

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/oklog/ulid/v2"
)

// Spawner keeps the consumable population of every type at its target.
type Spawner struct {
	targets map[types.ConsumableType]int
	rng     *rand.Rand
}

func NewSpawner(total int, rng *rand.Rand) *Spawner {
	return &Spawner{
		targets: SpawnTargets(total),
		rng:     rng,
	}
}

// SpawnTargets splits the total consumable count between types by their spawn ratios.
func SpawnTargets(total int) map[types.ConsumableType]int {
	var ratioSum float64
	for _, d := range types.ConsumableDefinitions {
		ratioSum += d.SpawnRatio
	}

	targets := make(map[types.ConsumableType]int, len(types.ConsumableDefinitions))
	for _, d := range types.ConsumableDefinitions {
		if ratioSum <= 0 {
			targets[d.Type] = 0
			continue
		}
		targets[d.Type] = int(math.Round(d.SpawnRatio / ratioSum * float64(total)))
	}
	return targets
}

// Target returns the population the spawner maintains for a type.
func (s *Spawner) Target(consumableType types.ConsumableType) int {
	return s.targets[consumableType]
}

// Spawn creates the missing consumables of every type and returns how many were created.
func (s *Spawner) Spawn(state *types.GameState, now time.Time) int {
	counts := state.CountConsumables()
	spawned := 0
	for _, definition := range types.ConsumableDefinitions {
		deficit := s.targets[definition.Type] - counts[definition.Type]
		for i := 0; i < deficit; i++ {
			c, err := s.newConsumable(state, definition, now)
			if err != nil {
				log.Error("Failed to spawn %s: %v", definition.Type, err)
				break
			}
			state.AddConsumable(c)
			spawned++
		}
	}
	if spawned > 0 {
		log.Trace("Spawned %d consumables", spawned)
	}
	return spawned
}

func (s *Spawner) newConsumable(state *types.GameState, definition types.ConsumableDefinition, now time.Time) (*types.Consumable, error) {
	id, err := ulid.New(ulid.Timestamp(now), s.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate consumable id: %v", err)
	}

	low, high := definition.SizeMultiplierRange[0], definition.SizeMultiplierRange[1]
	multiplier := low + s.rng.Float64()*(high-low)

	return types.NewConsumable(id.String(), definition, state.Bounds.RandomPoint(s.rng), definition.Size*multiplier), nil
}
