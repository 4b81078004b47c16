package game

import (
	"fmt"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/game/constants"
)

// Config holds the tunables of a game.
type Config struct {
	TickPeriod         time.Duration
	MapSize            float64
	ConsumableCount    int
	ConsumableCellSize int
	// MinPlayers is kept up with bots. Zero disables bots.
	MinPlayers               int
	MinStepLength            float64
	MinStepLengthAfterPickup float64
	StepLengthDecay          float64
	StepFOV                  float64
}

func DefaultConfig() Config {
	return Config{
		TickPeriod:               constants.TickPeriod,
		MapSize:                  constants.MapSize,
		ConsumableCount:          constants.ConsumableCount,
		ConsumableCellSize:       constants.ConsumableCellSize,
		MinPlayers:               constants.MinPlayers,
		MinStepLength:            constants.MinStepLength,
		MinStepLengthAfterPickup: constants.MinStepLengthAfterPickup,
		StepLengthDecay:          constants.StepLengthDecay,
		StepFOV:                  constants.StepFOV,
	}
}

func (c Config) Validate() error {
	if c.TickPeriod <= 0 {
		return fmt.Errorf("tick period must be positive, got %v", c.TickPeriod)
	}
	if c.MapSize <= 0 {
		return fmt.Errorf("map size must be positive, got %v", c.MapSize)
	}
	if c.ConsumableCount < 0 {
		return fmt.Errorf("consumable count must not be negative, got %d", c.ConsumableCount)
	}
	if c.ConsumableCellSize <= 0 {
		return fmt.Errorf("consumable cell size must be positive, got %d", c.ConsumableCellSize)
	}
	if c.MinPlayers < 0 {
		return fmt.Errorf("minimum players must not be negative, got %d", c.MinPlayers)
	}
	if c.MinStepLength <= 0 {
		return fmt.Errorf("minimum step length must be positive, got %v", c.MinStepLength)
	}
	if c.MinStepLengthAfterPickup < c.MinStepLength {
		return fmt.Errorf("post-pickup step length floor %v is below the decay floor %v", c.MinStepLengthAfterPickup, c.MinStepLength)
	}
	if c.StepLengthDecay <= 0 || c.StepLengthDecay > 1 {
		return fmt.Errorf("step length decay must be in (0, 1], got %v", c.StepLengthDecay)
	}
	if c.StepFOV <= 0 {
		return fmt.Errorf("step fov must be positive, got %v", c.StepFOV)
	}
	return nil
}
