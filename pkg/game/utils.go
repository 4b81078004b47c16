package game

import (
	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
)

// StateUpdateFromState exports a deep copy of the game state for publication.
func StateUpdateFromState(state *types.GameState) *messages.StateUpdate {
	players := make([]messages.PlayerSnapshot, 0, len(state.Players))
	for _, p := range state.Players {
		steps := make([]kinematic.Vector, len(p.Steps))
		copy(steps, p.Steps)
		players = append(players, messages.PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			Steps:      steps,
			StepLength: p.StepLength,
			Angle:      p.Angle,
			Buffs:      BuffSnapshotsFromBuffs(p.Buffs),
			IsBot:      p.IsBot,
			Spawned:    p.Spawned,
		})
	}

	consumables := make([]messages.ConsumableSnapshot, 0, len(state.Consumables))
	for _, c := range state.Consumables {
		consumables = append(consumables, messages.ConsumableSnapshot{
			ID:       c.ID,
			Type:     string(c.Type),
			Position: c.Position,
			Size:     c.Size,
			Color:    c.Definition().Color,
		})
	}

	return &messages.StateUpdate{
		Tick:               state.Tick,
		TickPeriod:         state.TickPeriod.Seconds(),
		ServerTimestamp:    state.Timestamp,
		ServerNextTickTime: state.NextTickTimestamp,
		Players:            players,
		Consumables:        consumables,
		GlobalBuffs:        BuffSnapshotsFromBuffs(state.GlobalBuffs),
		MapBounds: messages.MapBounds{
			Min: state.Bounds.Min,
			Max: state.Bounds.Max,
		},
	}
}

func BuffSnapshotsFromBuffs(buffs []*types.Buff) []messages.BuffSnapshot {
	snapshots := make([]messages.BuffSnapshot, 0, len(buffs))
	for _, b := range buffs {
		definition := b.Definition()
		snapshots = append(snapshots, messages.BuffSnapshot{
			Type:              string(b.Type),
			FriendlyName:      definition.FriendlyName,
			DurationRemaining: b.DurationRemaining,
			IsDebuff:          definition.IsDebuff,
		})
	}
	return snapshots
}
