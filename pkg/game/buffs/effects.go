package buffs

import (
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

// DefaultEffects returns the effect table for the built-in buff catalog.
func DefaultEffects(magnetDistance float64, tickPeriodBoostFactor float64) EffectTable {
	return EffectTable{
		Activate: map[types.BuffType]EffectFunc{
			types.BuffTypeAppleMagnet:     AttractConsumables(types.ConsumableTypeApple, magnetDistance),
			types.BuffTypeAppleRepel:      RepelConsumables(types.ConsumableTypeApple, magnetDistance),
			types.BuffTypeTickPeriodBoost: ScaleTickPeriod(tickPeriodBoostFactor),
			types.BuffTypeGhost:           Noop,
		},
		Deactivate: map[types.BuffType]EffectFunc{
			types.BuffTypeAppleMagnet:     Noop,
			types.BuffTypeAppleRepel:      Noop,
			types.BuffTypeTickPeriodBoost: ScaleTickPeriod(1 / tickPeriodBoostFactor),
			types.BuffTypeGhost:           Noop,
		},
	}
}

// AttractConsumables moves consumables of the given type toward the player's head.
// Consumables within distance of the head land exactly on it.
func AttractConsumables(consumableType types.ConsumableType, distance float64) EffectFunc {
	return func(state *types.GameState, player *types.PlayerState) {
		if player == nil {
			return
		}
		head := player.Head()
		for _, c := range state.Consumables {
			if c.Type != consumableType {
				continue
			}
			offset := head.Sub(c.Position)
			dist := offset.Length()
			if dist <= distance {
				state.MoveConsumable(c, head)
				continue
			}
			state.MoveConsumable(c, kinematic.Vector{
				X: c.Position.X + offset.X/dist*distance,
				Y: c.Position.Y + offset.Y/dist*distance,
			})
		}
	}
}

// RepelConsumables pushes consumables of the given type away from the player's head,
// never past the map bounds. Consumables within distance of the head land exactly on it.
func RepelConsumables(consumableType types.ConsumableType, distance float64) EffectFunc {
	return func(state *types.GameState, player *types.PlayerState) {
		if player == nil {
			return
		}
		head := player.Head()
		for _, c := range state.Consumables {
			if c.Type != consumableType {
				continue
			}
			offset := head.Sub(c.Position)
			dist := offset.Length()
			if dist <= distance {
				state.MoveConsumable(c, head)
				continue
			}
			state.MoveConsumable(c, state.Bounds.Clamp(kinematic.Vector{
				X: c.Position.X - offset.X/dist*distance,
				Y: c.Position.Y - offset.Y/dist*distance,
			}))
		}
	}
}

// ScaleTickPeriod multiplies the global tick period by factor.
func ScaleTickPeriod(factor float64) EffectFunc {
	return func(state *types.GameState, _ *types.PlayerState) {
		period := time.Duration(float64(state.TickPeriod) * factor)
		if period <= 0 {
			period = 1
		}
		state.TickPeriod = period
	}
}

// Noop is used for buffs whose state is only consulted, like ghost.
func Noop(_ *types.GameState, _ *types.PlayerState) {}
