package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/collisions"
	"github.com/cbodonnell/leglesslizard/pkg/game/constants"
	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPhysics() (*PhysicsEngine, *types.GameState) {
	config := DefaultConfig()
	state := types.NewGameState(collisions.NewSquareBounds(config.MapSize), config.TickPeriod, config.ConsumableCellSize)
	return NewPhysicsEngine(config, rand.New(rand.NewSource(3))), state
}

func newPhysicsPlayer(id string, position kinematic.Vector, stepLength float64, angle float64) *types.PlayerState {
	player := types.NewPlayerState(id, id, types.ColorPalette[0], position, stepLength, constants.StepFOV, false)
	player.Angle = angle
	return player
}

func addConsumable(t *testing.T, state *types.GameState, id string, consumableType types.ConsumableType, position kinematic.Vector, multiplier float64) *types.Consumable {
	definition, ok := types.GetConsumableDefinition(consumableType)
	require.True(t, ok)
	c := types.NewConsumable(id, definition, position, definition.Size*multiplier)
	state.AddConsumable(c)
	return c
}

func TestTrailCapacity(t *testing.T) {
	tests := []struct {
		stepLength float64
		want       int
	}{
		{stepLength: 0, want: 2},
		{stepLength: 1, want: 2},
		{stepLength: 40, want: 9},
		{stepLength: 50, want: 10},
		{stepLength: 100, want: 15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrailCapacity(tt.stepLength), "step length %v", tt.stepLength)
	}
}

func TestPhysicsEngine_TrimBound(t *testing.T) {
	physics, state := newTestPhysics()
	player := newPhysicsPlayer("p1", kinematic.Vector{X: -900, Y: 0}, 60, 0)
	state.AddPlayer(player)

	for i := 0; i < 30; i++ {
		stepLength := player.StepLength
		physics.Step(state)
		require.Greater(t, len(player.Steps), 1, "tick %d", i)
		assert.LessOrEqual(t, len(player.Steps), TrailCapacity(stepLength), "tick %d", i)
		assert.GreaterOrEqual(t, player.StepLength, physics.config.MinStepLength)
	}
}

func TestPhysicsEngine_DecayFloor(t *testing.T) {
	physics, state := newTestPhysics()
	player := newPhysicsPlayer("p1", kinematic.Vector{X: -900, Y: 0}, 40.1, 0)
	state.AddPlayer(player)

	physics.Step(state)
	assert.Equal(t, physics.config.MinStepLength, player.StepLength)
}

func TestPhysicsEngine_Pickups(t *testing.T) {
	tests := []struct {
		name           string
		consumableType types.ConsumableType
		multiplier     float64
		stepLength     float64
		wantStepLength float64
		wantBuff       types.BuffType
		wantGlobal     bool
	}{
		{
			name:           "apple grows by the inverse of its size",
			consumableType: types.ConsumableTypeApple,
			multiplier:     2,
			stepLength:     60,
			wantStepLength: 60*constants.StepLengthDecay + 10,
		},
		{
			name:           "poison is clamped to the post-pickup floor",
			consumableType: types.ConsumableTypePoison,
			multiplier:     3,
			stepLength:     60,
			wantStepLength: constants.MinStepLengthAfterPickup,
			wantBuff:       types.BuffTypeAppleRepel,
		},
		{
			name:           "apple lifts a small player to the post-pickup floor",
			consumableType: types.ConsumableTypeApple,
			multiplier:     2,
			stepLength:     40,
			wantStepLength: constants.MinStepLengthAfterPickup,
		},
		{
			name:           "pineapple grants a magnet",
			consumableType: types.ConsumableTypePineapple,
			multiplier:     1,
			stepLength:     60,
			wantStepLength: 60 * constants.StepLengthDecay,
			wantBuff:       types.BuffTypeAppleMagnet,
		},
		{
			name:           "grape grants a global boost",
			consumableType: types.ConsumableTypeGrape,
			multiplier:     1,
			stepLength:     60,
			wantStepLength: 60 * constants.StepLengthDecay,
			wantBuff:       types.BuffTypeTickPeriodBoost,
			wantGlobal:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			physics, state := newTestPhysics()
			player := newPhysicsPlayer("p1", kinematic.Vector{X: 0, Y: 0}, tt.stepLength, 0)
			state.AddPlayer(player)
			addConsumable(t, state, "c1", tt.consumableType, kinematic.Vector{X: tt.stepLength, Y: 0}, tt.multiplier)

			physics.Step(state)

			assert.Empty(t, state.Consumables)
			assert.Equal(t, 0, state.ConsumableSpace.Len())
			assert.InDelta(t, tt.wantStepLength, player.StepLength, 1e-9)
			assert.GreaterOrEqual(t, player.StepLength, constants.MinStepLength)

			switch {
			case tt.wantBuff == "":
				assert.Empty(t, player.Buffs)
				assert.Empty(t, state.GlobalBuffs)
			case tt.wantGlobal:
				require.Len(t, state.GlobalBuffs, 1)
				assert.Equal(t, tt.wantBuff, state.GlobalBuffs[0].Type)
				assert.Empty(t, player.Buffs)
			default:
				require.Len(t, player.Buffs, 1)
				assert.Equal(t, tt.wantBuff, player.Buffs[0].Type)
				assert.False(t, player.Buffs[0].IsApplied)
			}
		})
	}
}

func TestPhysicsEngine_ConsumableConsumedOnce(t *testing.T) {
	physics, state := newTestPhysics()
	// both heads land on the same apple
	p1 := newPhysicsPlayer("p1", kinematic.Vector{X: -50, Y: 0}, 50, 0)
	p2 := newPhysicsPlayer("p2", kinematic.Vector{X: 50, Y: 0}, 50, math.Pi)
	state.AddPlayer(p1)
	state.AddPlayer(p2)
	addConsumable(t, state, "apple", types.ConsumableTypeApple, kinematic.Vector{X: 0, Y: 0}, 1)

	physics.Step(state)

	assert.Empty(t, state.Consumables)
	assert.InDelta(t, 50*constants.StepLengthDecay+20, p1.StepLength, 1e-9)
	assert.InDelta(t, 50*constants.StepLengthDecay, p2.StepLength, 1e-9)
}

func TestPhysicsEngine_SelfCollision(t *testing.T) {
	physics, state := newTestPhysics()
	player := newPhysicsPlayer("p1", kinematic.Vector{X: 0, Y: 0}, 60, -math.Pi/2)
	// a hook whose next step crosses its first segment
	player.Steps = []kinematic.Vector{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}, {X: 25, Y: 50}}
	state.AddPlayer(player)

	physics.Step(state)

	assert.Len(t, player.Steps, 1)
	assert.False(t, player.Spawned)
}

func TestPhysicsEngine_StraightLineDoesNotSelfCollide(t *testing.T) {
	physics, state := newTestPhysics()
	player := newPhysicsPlayer("p1", kinematic.Vector{X: -500, Y: 0}, 50, 0)
	state.AddPlayer(player)

	for i := 0; i < 5; i++ {
		physics.Step(state)
	}
	assert.Len(t, player.Steps, 6)
	assert.True(t, player.Spawned)
}

func TestPhysicsEngine_PickupThenLeavingMapResets(t *testing.T) {
	physics, state := newTestPhysics()
	player := newPhysicsPlayer("p1", kinematic.Vector{X: 970, Y: 0}, 50, 0)
	state.AddPlayer(player)
	// the head ends outside the map but inside the apple
	addConsumable(t, state, "apple", types.ConsumableTypeApple, kinematic.Vector{X: 995, Y: 0}, 3)

	physics.Step(state)

	assert.Empty(t, state.Consumables)
	assert.Len(t, player.Steps, 1)
	assert.Equal(t, constants.MinStepLength, player.StepLength)
}

func TestPhysicsEngine_PickupOnMapEdge(t *testing.T) {
	physics, state := newTestPhysics()
	// the head lands exactly on the max edge
	player := newPhysicsPlayer("p1", kinematic.Vector{X: 960, Y: 0}, 40, 0)
	state.AddPlayer(player)
	addConsumable(t, state, "apple", types.ConsumableTypeApple, kinematic.Vector{X: 995, Y: 0}, 1)

	physics.Step(state)

	assert.Empty(t, state.Consumables)
	assert.Len(t, player.Steps, 2)
	assert.Equal(t, constants.MinStepLengthAfterPickup, player.StepLength)
}

func TestPhysicsEngine_ResetKeepsBuffs(t *testing.T) {
	physics, state := newTestPhysics()
	player := newPhysicsPlayer("p1", kinematic.Vector{X: 990, Y: 0}, 50, 0)
	player.Buffs = append(player.Buffs, types.NewBuff(types.BuffDefinitions[types.BuffTypeAppleMagnet]))
	state.AddPlayer(player)

	physics.Step(state)

	assert.Len(t, player.Steps, 1)
	assert.True(t, player.HasBuff(types.BuffTypeAppleMagnet))
	assert.Equal(t, 0.0, player.Angle)
}

func TestSpawner(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	spawner := NewSpawner(200, rng)
	_, state := newTestPhysics()
	now := time.UnixMilli(1700000000000)

	assert.Equal(t, 200, spawner.Spawn(state, now))
	counts := state.CountConsumables()
	total := 0
	for _, definition := range types.ConsumableDefinitions {
		assert.Equal(t, spawner.Target(definition.Type), counts[definition.Type], definition.Type)
		total += counts[definition.Type]
	}
	assert.Equal(t, 200, total)
	assert.Equal(t, 200, state.ConsumableSpace.Len())

	ids := make(map[string]struct{})
	for _, c := range state.Consumables {
		ids[c.ID] = struct{}{}
		definition := c.Definition()
		assert.GreaterOrEqual(t, c.Size, definition.Size*definition.SizeMultiplierRange[0])
		assert.LessOrEqual(t, c.Size, definition.Size*definition.SizeMultiplierRange[1])
		assert.True(t, state.Bounds.Contains(c.Position))
	}
	assert.Len(t, ids, 200)

	// remove three apples, the next spawn creates exactly the deficit
	removed := make(map[string]struct{})
	for _, c := range state.Consumables {
		if c.Type == types.ConsumableTypeApple && len(removed) < 3 {
			removed[c.ID] = struct{}{}
		}
	}
	state.RemoveConsumables(removed)

	assert.Equal(t, 3, spawner.Spawn(state, now))
	assert.Equal(t, spawner.Target(types.ConsumableTypeApple), state.CountConsumables()[types.ConsumableTypeApple])
	assert.Equal(t, 0, spawner.Spawn(state, now))
}

func TestSpawnTargets(t *testing.T) {
	targets := SpawnTargets(200)
	assert.Equal(t, 94, targets[types.ConsumableTypeApple])
	assert.Equal(t, 35, targets[types.ConsumableTypePoison])
	assert.Equal(t, 12, targets[types.ConsumableTypePineapple])
	assert.Equal(t, 24, targets[types.ConsumableTypeGrape])
	assert.Equal(t, 35, targets[types.ConsumableTypeStone])
}
