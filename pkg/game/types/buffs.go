package types

import "fmt"

type BuffType string

const (
	BuffTypeAppleMagnet     BuffType = "apple_magnet"
	BuffTypeAppleRepel      BuffType = "apple_repel"
	BuffTypeTickPeriodBoost BuffType = "tick_period_boost"
	BuffTypeGhost           BuffType = "ghost"
)

// BuffApplicationTime is the tick phase a buff is decayed and applied in.
type BuffApplicationTime uint8

const (
	BuffApplicationTimePreStep BuffApplicationTime = iota
	BuffApplicationTimePostStep
)

func (t BuffApplicationTime) String() string {
	switch t {
	case BuffApplicationTimePreStep:
		return "pre_step"
	case BuffApplicationTimePostStep:
		return "post_step"
	default:
		return "unknown"
	}
}

type BuffApplicationFrequency uint8

const (
	// BuffApplicationFrequencyOnce applies the buff the first time its phase runs
	BuffApplicationFrequencyOnce BuffApplicationFrequency = iota
	// BuffApplicationFrequencyRepeating applies the buff every time its phase runs
	BuffApplicationFrequencyRepeating
)

type BuffDefinition struct {
	Type            BuffType
	FriendlyName    string
	DefaultDuration int
	IsDebuff        bool
	Frequency       BuffApplicationFrequency
	ApplicationTime BuffApplicationTime
	AppliesGlobally bool
}

// BuffDefinitions is the static buff catalog.
var BuffDefinitions = map[BuffType]BuffDefinition{
	BuffTypeAppleMagnet: {
		Type:            BuffTypeAppleMagnet,
		FriendlyName:    "Apple Magnet",
		DefaultDuration: 8,
		IsDebuff:        false,
		Frequency:       BuffApplicationFrequencyRepeating,
		ApplicationTime: BuffApplicationTimePostStep,
		AppliesGlobally: false,
	},
	BuffTypeAppleRepel: {
		Type:            BuffTypeAppleRepel,
		FriendlyName:    "Apple Repel",
		DefaultDuration: 4,
		IsDebuff:        true,
		Frequency:       BuffApplicationFrequencyRepeating,
		ApplicationTime: BuffApplicationTimePostStep,
		AppliesGlobally: false,
	},
	BuffTypeTickPeriodBoost: {
		Type:            BuffTypeTickPeriodBoost,
		FriendlyName:    "Speed Up",
		DefaultDuration: 12,
		IsDebuff:        false,
		Frequency:       BuffApplicationFrequencyOnce,
		ApplicationTime: BuffApplicationTimePostStep,
		AppliesGlobally: true,
	},
	BuffTypeGhost: {
		Type:            BuffTypeGhost,
		FriendlyName:    "Ghost",
		DefaultDuration: 6,
		IsDebuff:        false,
		Frequency:       BuffApplicationFrequencyOnce,
		ApplicationTime: BuffApplicationTimePostStep,
		AppliesGlobally: false,
	},
}

// AllBuffTypes lists every declared buff type in a stable order.
func AllBuffTypes() []BuffType {
	return []BuffType{
		BuffTypeAppleMagnet,
		BuffTypeAppleRepel,
		BuffTypeTickPeriodBoost,
		BuffTypeGhost,
	}
}

// Buff is an active instance of a buff definition.
type Buff struct {
	Type              BuffType
	DurationRemaining int
	IsApplied         bool
}

// NewBuff instantiates a fresh, unapplied buff from its definition.
func NewBuff(definition BuffDefinition) *Buff {
	return &Buff{
		Type:              definition.Type,
		DurationRemaining: definition.DefaultDuration,
		IsApplied:         false,
	}
}

// Definition returns the catalog entry of the buff.
// Buff types are validated at startup, so a missing entry is a programming error.
func (b *Buff) Definition() BuffDefinition {
	definition, ok := BuffDefinitions[b.Type]
	if !ok {
		panic(fmt.Sprintf("no definition for buff type %q", b.Type))
	}
	return definition
}

// Expired reports whether the buff has run out.
func (b *Buff) Expired() bool {
	return b.DurationRemaining < 0
}

// Copy returns a copy of the buff
func (b *Buff) Copy() *Buff {
	return &Buff{
		Type:              b.Type,
		DurationRemaining: b.DurationRemaining,
		IsApplied:         b.IsApplied,
	}
}
