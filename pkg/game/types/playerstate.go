package types

import (
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

type PlayerState struct {
	ID    string
	Name  string
	Color Color
	// Steps is the trail, oldest first. It always holds at least one step.
	Steps      []kinematic.Vector
	StepLength float64
	Angle      float64
	StepFOV    float64
	Buffs      []*Buff
	IsBot      bool
	Spawned    bool
}

func NewPlayerState(id string, name string, color Color, position kinematic.Vector, stepLength float64, stepFOV float64, isBot bool) *PlayerState {
	return &PlayerState{
		ID:         id,
		Name:       name,
		Color:      color,
		Steps:      []kinematic.Vector{position},
		StepLength: stepLength,
		StepFOV:    stepFOV,
		Buffs:      make([]*Buff, 0),
		IsBot:      isBot,
	}
}

// Head returns the newest trail step.
func (p *PlayerState) Head() kinematic.Vector {
	return p.Steps[len(p.Steps)-1]
}

// LastSegment returns the newest trail segment, if the trail has one.
func (p *PlayerState) LastSegment() (kinematic.Vector, kinematic.Vector, bool) {
	if len(p.Steps) < 2 {
		return kinematic.Vector{}, kinematic.Vector{}, false
	}
	return p.Steps[len(p.Steps)-2], p.Steps[len(p.Steps)-1], true
}

// LastSegmentBearing returns the direction of the newest trail segment, if the trail has one.
func (p *PlayerState) LastSegmentBearing() (float64, bool) {
	from, to, ok := p.LastSegment()
	if !ok {
		return 0, false
	}
	return kinematic.Bearing(from, to), true
}

// ClampHeading limits a requested heading to the player's field of view around
// the bearing of its last segment. A trail without segments accepts any heading.
func (p *PlayerState) ClampHeading(angle float64) float64 {
	reference, ok := p.LastSegmentBearing()
	if !ok {
		return angle
	}
	return kinematic.ClampAngle(angle, reference, p.StepFOV)
}

func (p *PlayerState) HasBuff(buffType BuffType) bool {
	for _, b := range p.Buffs {
		if b.Type == buffType {
			return true
		}
	}
	return false
}

// IsGhost reports whether player-vs-player collisions are suppressed for the player.
func (p *PlayerState) IsGhost() bool {
	return p.HasBuff(BuffTypeGhost)
}

// Reset respawns the player at position, keeping identity and buffs.
func (p *PlayerState) Reset(position kinematic.Vector, stepLength float64) {
	p.Steps = []kinematic.Vector{position}
	p.StepLength = stepLength
	p.Angle = 0
	p.Spawned = false
}

// Copy returns a deep copy of the player state
func (p *PlayerState) Copy() *PlayerState {
	steps := make([]kinematic.Vector, len(p.Steps))
	copy(steps, p.Steps)
	buffs := make([]*Buff, 0, len(p.Buffs))
	for _, b := range p.Buffs {
		buffs = append(buffs, b.Copy())
	}
	return &PlayerState{
		ID:         p.ID,
		Name:       p.Name,
		Color:      p.Color,
		Steps:      steps,
		StepLength: p.StepLength,
		Angle:      p.Angle,
		StepFOV:    p.StepFOV,
		Buffs:      buffs,
		IsBot:      p.IsBot,
		Spawned:    p.Spawned,
	}
}
