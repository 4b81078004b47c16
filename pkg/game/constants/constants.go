package constants

import (
	"math"
	"time"
)

const (
	// TickPeriod is the default time between two game ticks
	TickPeriod time.Duration = 1250 * time.Millisecond
	// MapSize is the side length of the square map centered on the origin
	MapSize float64 = 2000.0
	// ConsumableDensity is the number of consumables per square unit of map
	ConsumableDensity float64 = 0.00005
	// ConsumableCount is the total consumable population the spawner maintains
	ConsumableCount int = int(MapSize * MapSize * ConsumableDensity)
	// ConsumableCellSize is the broad-phase cell size used for pickup lookups
	ConsumableCellSize int = 50

	// MinStepLength is the floor step length decays toward, and the length a reset player starts with
	MinStepLength float64 = 40.0
	// MinStepLengthAfterPickup is the floor applied right after a consumable changes a player's size
	MinStepLengthAfterPickup float64 = 50.0
	// StepLengthDecay is the factor applied to the step length every tick
	StepLengthDecay float64 = 0.995
	// TrailLengthExponent sizes the trail: a player keeps int(stepLength^TrailLengthExponent) steps
	TrailLengthExponent float64 = 0.6
	// MinTrailSteps is the smallest trail kept after trimming
	MinTrailSteps int = 2
	// StepFOV is the maximum heading change per tick relative to the previous segment
	StepFOV float64 = math.Pi / 4

	// MinPlayers is the player count, bots included, the game keeps up
	MinPlayers int = 4
	// BotAvoidanceStep is the angle added per collision avoidance attempt
	BotAvoidanceStep float64 = 0.1
	// BotAvoidanceAttempts bounds the collision avoidance search
	BotAvoidanceAttempts int = 50
	// BotNameMaxRetries bounds the unique bot name search
	BotNameMaxRetries int = 1024

	// MagnetDistance is how far a magnet or repel buff moves a consumable per tick
	MagnetDistance float64 = 15.0
	// TickPeriodBoostFactor scales the tick period while a tick period boost is active
	TickPeriodBoostFactor float64 = 0.5

	// PlayerNameMaxLength is the longest accepted display name
	PlayerNameMaxLength int = 16
)
