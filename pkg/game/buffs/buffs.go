package buffs

import (
	"fmt"

	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/log"
)

// EffectFunc applies or reverts a buff effect. player is nil for global buffs.
type EffectFunc func(state *types.GameState, player *types.PlayerState)

// EffectTable maps every buff type to its activation and deactivation effects.
type EffectTable struct {
	Activate   map[types.BuffType]EffectFunc
	Deactivate map[types.BuffType]EffectFunc
}

// Engine decays and applies active buffs once per tick phase.
type Engine struct {
	activate   map[types.BuffType]EffectFunc
	deactivate map[types.BuffType]EffectFunc
}

// NewEngine validates that the table covers every declared buff type and returns an engine for it.
func NewEngine(table EffectTable) (*Engine, error) {
	if err := validateTable("activate", table.Activate); err != nil {
		return nil, err
	}
	if err := validateTable("deactivate", table.Deactivate); err != nil {
		return nil, err
	}
	return &Engine{
		activate:   table.Activate,
		deactivate: table.Deactivate,
	}, nil
}

func validateTable(name string, effects map[types.BuffType]EffectFunc) error {
	declared := make(map[types.BuffType]struct{})
	for _, buffType := range types.AllBuffTypes() {
		declared[buffType] = struct{}{}
		effect, ok := effects[buffType]
		if !ok || effect == nil {
			return fmt.Errorf("no %s effect for buff type %q", name, buffType)
		}
	}
	for buffType := range effects {
		if _, ok := declared[buffType]; !ok {
			return fmt.Errorf("%s effect registered for undeclared buff type %q", name, buffType)
		}
	}
	return nil
}

// Run processes one tick phase: buffs of that phase are decayed first, expired buffs are
// deactivated and dropped, then the survivors are applied.
func (e *Engine) Run(state *types.GameState, phase types.BuffApplicationTime) {
	e.decay(state, phase)
	e.apply(state, phase)
}

func (e *Engine) decay(state *types.GameState, phase types.BuffApplicationTime) {
	for _, player := range state.Players {
		player.Buffs = e.decayBuffs(state, player, player.Buffs, phase)
	}
	state.GlobalBuffs = e.decayBuffs(state, nil, state.GlobalBuffs, phase)
}

func (e *Engine) decayBuffs(state *types.GameState, player *types.PlayerState, buffs []*types.Buff, phase types.BuffApplicationTime) []*types.Buff {
	active := make([]*types.Buff, 0, len(buffs))
	for _, buff := range buffs {
		if buff.Definition().ApplicationTime != phase {
			active = append(active, buff)
			continue
		}

		buff.DurationRemaining--
		if buff.Expired() {
			e.deactivate[buff.Type](state, player)
			if player != nil {
				log.Debug("Buff %s expired for player %s", buff.Type, player.Name)
			} else {
				log.Debug("Global buff %s expired", buff.Type)
			}
			continue
		}
		active = append(active, buff)
	}
	return active
}

func (e *Engine) apply(state *types.GameState, phase types.BuffApplicationTime) {
	for _, player := range state.Players {
		for _, buff := range player.Buffs {
			e.applyBuff(state, player, buff, phase)
		}
	}
	for _, buff := range state.GlobalBuffs {
		e.applyBuff(state, nil, buff, phase)
	}
}

func (e *Engine) applyBuff(state *types.GameState, player *types.PlayerState, buff *types.Buff, phase types.BuffApplicationTime) {
	definition := buff.Definition()
	if definition.ApplicationTime != phase {
		return
	}
	if definition.Frequency == types.BuffApplicationFrequencyOnce && buff.IsApplied {
		return
	}
	e.activate[buff.Type](state, player)
	buff.IsApplied = true
}

// Grant attaches a fresh buff of the given type to the player, or to the game
// state when the buff applies globally.
func Grant(state *types.GameState, player *types.PlayerState, buffType types.BuffType) *types.Buff {
	definition, ok := types.BuffDefinitions[buffType]
	if !ok {
		log.Error("Cannot grant unknown buff type %s", buffType)
		return nil
	}
	buff := types.NewBuff(definition)
	if definition.AppliesGlobally {
		state.GlobalBuffs = append(state.GlobalBuffs, buff)
	} else {
		player.Buffs = append(player.Buffs, buff)
	}
	return buff
}
