package types

import (
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

type ConsumableType string

const (
	ConsumableTypeApple     ConsumableType = "apple"
	ConsumableTypePoison    ConsumableType = "poison"
	ConsumableTypePineapple ConsumableType = "pineapple"
	ConsumableTypeGrape     ConsumableType = "grape"
	ConsumableTypeStone     ConsumableType = "stone"
)

// SizeEffectCurve maps the size multiplier of a consumable to the share of its
// player size effect that is applied.
type SizeEffectCurve func(multiplier float64) float64

// InverseSizeEffect makes bigger consumables weaker.
func InverseSizeEffect(multiplier float64) float64 {
	return 1 / multiplier
}

// LinearSizeEffect scales the effect with the size.
func LinearSizeEffect(multiplier float64) float64 {
	return multiplier
}

type ConsumableDefinition struct {
	Type  ConsumableType
	Color Color
	// Size is the nominal radius
	Size       float64
	SpawnRatio float64
	// PlayerSizeDiff is added to the step length, scaled by the effect curve
	PlayerSizeDiff      float64
	SizeMultiplierRange [2]float64
	SizeEffect          SizeEffectCurve
	// Buff is granted on pickup when set
	Buff BuffType
	// Undesirable consumables are avoided by bots
	Undesirable bool
}

// ChangesPlayerSize reports whether picking the consumable up alters the step length.
func (d ConsumableDefinition) ChangesPlayerSize() bool {
	return d.PlayerSizeDiff != 0
}

// GrantsBuff reports whether picking the consumable up grants a buff.
func (d ConsumableDefinition) GrantsBuff() bool {
	return d.Buff != ""
}

// ConsumableDefinitions is the static consumable catalog in spawn order.
var ConsumableDefinitions = []ConsumableDefinition{
	{
		Type:                ConsumableTypeApple,
		Color:               Color{0, 129, 72},
		Size:                10,
		SpawnRatio:          0.8,
		PlayerSizeDiff:      20,
		SizeMultiplierRange: [2]float64{1.0, 2.0},
		SizeEffect:          InverseSizeEffect,
	},
	{
		Type:                ConsumableTypePoison,
		Color:               Color{245, 65, 0},
		Size:                10,
		SpawnRatio:          0.3,
		PlayerSizeDiff:      -20,
		SizeMultiplierRange: [2]float64{1.0, 3.0},
		SizeEffect:          LinearSizeEffect,
		Buff:                BuffTypeAppleRepel,
		Undesirable:         true,
	},
	{
		Type:                ConsumableTypePineapple,
		Color:               Color{247, 203, 21},
		Size:                10,
		SpawnRatio:          0.1,
		SizeMultiplierRange: [2]float64{1.0, 1.0},
		SizeEffect:          LinearSizeEffect,
		Buff:                BuffTypeAppleMagnet,
	},
	{
		Type:                ConsumableTypeGrape,
		Color:               Color{181, 129, 197},
		Size:                10,
		SpawnRatio:          0.2,
		SizeMultiplierRange: [2]float64{1.0, 1.0},
		SizeEffect:          LinearSizeEffect,
		Buff:                BuffTypeTickPeriodBoost,
	},
	{
		Type:                ConsumableTypeStone,
		Color:               Color{143, 143, 143},
		Size:                10,
		SpawnRatio:          0.3,
		SizeMultiplierRange: [2]float64{1.0, 1.3},
		SizeEffect:          LinearSizeEffect,
		Buff:                BuffTypeGhost,
	},
}

// GetConsumableDefinition looks a consumable type up in the catalog.
func GetConsumableDefinition(consumableType ConsumableType) (ConsumableDefinition, bool) {
	for _, d := range ConsumableDefinitions {
		if d.Type == consumableType {
			return d, true
		}
	}
	return ConsumableDefinition{}, false
}

// Consumable is a pickup lying on the map.
type Consumable struct {
	ID       string
	Type     ConsumableType
	Position kinematic.Vector
	// Size is the actual radius: the nominal size times the multiplier drawn at spawn
	Size       float64
	definition ConsumableDefinition
}

func NewConsumable(id string, definition ConsumableDefinition, position kinematic.Vector, size float64) *Consumable {
	return &Consumable{
		ID:         id,
		Type:       definition.Type,
		Position:   position,
		Size:       size,
		definition: definition,
	}
}

func (c *Consumable) Definition() ConsumableDefinition {
	return c.definition
}

// SizeMultiplier is the ratio between the actual and the nominal size.
func (c *Consumable) SizeMultiplier() float64 {
	if c.definition.Size == 0 {
		return 1
	}
	return c.Size / c.definition.Size
}
