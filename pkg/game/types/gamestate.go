package types

import (
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/collisions"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

type GameState struct {
	// Tick is the number of ticks run so far
	Tick int64
	// TickPeriod is the current time between ticks. Buffs may change it.
	TickPeriod time.Duration
	// Timestamp is the unix millisecond time of the last tick
	Timestamp int64
	// NextTickTimestamp is the unix millisecond time the next tick is due
	NextTickTimestamp int64
	// Players in join order
	Players []*PlayerState
	// Consumables in spawn order
	Consumables []*Consumable
	GlobalBuffs []*Buff
	Bounds      collisions.Bounds
	// ConsumableSpace indexes Consumables for pickup lookups
	ConsumableSpace *collisions.ConsumableSpace
}

func NewGameState(bounds collisions.Bounds, tickPeriod time.Duration, cellSize int) *GameState {
	return &GameState{
		TickPeriod:      tickPeriod,
		Players:         make([]*PlayerState, 0),
		Consumables:     make([]*Consumable, 0),
		GlobalBuffs:     make([]*Buff, 0),
		Bounds:          bounds,
		ConsumableSpace: collisions.NewConsumableSpace(bounds, cellSize),
	}
}

func (g *GameState) GetPlayer(id string) *PlayerState {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *GameState) GetPlayerByName(name string) *PlayerState {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (g *GameState) AddPlayer(player *PlayerState) {
	g.Players = append(g.Players, player)
}

// RemovePlayer removes the player with the given id and returns it, or nil if there is none.
func (g *GameState) RemovePlayer(id string) *PlayerState {
	for i, p := range g.Players {
		if p.ID == id {
			g.Players = append(g.Players[:i:i], g.Players[i+1:]...)
			return p
		}
	}
	return nil
}

// CountPlayers returns the number of human and bot players.
func (g *GameState) CountPlayers() (humans int, bots int) {
	for _, p := range g.Players {
		if p.IsBot {
			bots++
		} else {
			humans++
		}
	}
	return humans, bots
}

// ColorInUse reports whether a current player has the color.
func (g *GameState) ColorInUse(color Color) bool {
	for _, p := range g.Players {
		if p.Color == color {
			return true
		}
	}
	return false
}

func (g *GameState) AddConsumable(c *Consumable) {
	g.Consumables = append(g.Consumables, c)
	g.ConsumableSpace.Upsert(c.ID, c.Position, c.Size)
}

// MoveConsumable updates the position of a consumable and its index entry.
func (g *GameState) MoveConsumable(c *Consumable, position kinematic.Vector) {
	c.Position = position
	g.ConsumableSpace.Upsert(c.ID, c.Position, c.Size)
}

// RemoveConsumables removes every consumable whose id is in the set.
func (g *GameState) RemoveConsumables(ids map[string]struct{}) {
	if len(ids) == 0 {
		return
	}
	kept := g.Consumables[:0]
	for _, c := range g.Consumables {
		if _, ok := ids[c.ID]; ok {
			g.ConsumableSpace.Remove(c.ID)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(g.Consumables); i++ {
		g.Consumables[i] = nil
	}
	g.Consumables = kept
}

// CountConsumables returns the number of consumables per type.
func (g *GameState) CountConsumables() map[ConsumableType]int {
	counts := make(map[ConsumableType]int)
	for _, c := range g.Consumables {
		counts[c.Type]++
	}
	return counts
}
