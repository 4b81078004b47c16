package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cbodonnell/leglesslizard/pkg/game/constants"
	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

var botNameAdjectives = []string{
	"DOG FIGHT",
	"YUNG",
	"BIG",
	"LIL'",
	"MUSCLE",
	"SLITHERING",
	"SLICK",
	"ULTRA",
	"GOLDEN",
	"SIGMA",
	"SHRIGMA",
	"STEEZY",
	"SWEATY",
	"FRICKEN",
	"DANK",
	"MR. STEAL YO",
	"DEVILISH",
	"EVIL",
}

var botNameNouns = []string{
	"CHOPPA",
	"MULA",
	"ZOOMER",
	"BAG",
	"HUSTLA",
	"MUMMY",
	"DADDY",
	"BOSS",
	"BOSSMAN",
	"CATFISH",
	"GANGSTER",
	"PEPE",
	"BOZO",
	"MUNTER",
}

// generateBotName draws adjective-noun names until one is not in use.
func generateBotName(state *types.GameState, rng *rand.Rand, maxRetries int) (string, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		name := fmt.Sprintf("%s %s", botNameAdjectives[rng.Intn(len(botNameAdjectives))], botNameNouns[rng.Intn(len(botNameNouns))])
		if state.GetPlayerByName(name) == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique bot name after %d attempts", maxRetries)
}

// botDemand returns how many bots must be removed, or added, to keep the
// player count at minPlayers with as few bots as possible.
func botDemand(state *types.GameState, minPlayers int) (excess int, shortfall int) {
	humans, bots := state.CountPlayers()
	wanted := minPlayers - humans
	if wanted < 0 {
		wanted = 0
	}
	if bots > wanted {
		return bots - wanted, 0
	}
	return 0, wanted - bots
}

// oldestBots returns the first n bots in join order.
func oldestBots(state *types.GameState, n int) []*types.PlayerState {
	bots := make([]*types.PlayerState, 0, n)
	for _, p := range state.Players {
		if len(bots) == n {
			break
		}
		if p.IsBot {
			bots = append(bots, p)
		}
	}
	return bots
}

// ChooseBotAngle picks the heading of a bot for the coming step: toward the
// nearest reachable desirable consumable, limited to the bot's field of view,
// then turned away from other trails if the step would cross one.
func ChooseBotAngle(state *types.GameState, bot *types.PlayerState) float64 {
	head := bot.Head()

	angle := 0.0
	closest := math.Inf(1)
	for _, c := range state.Consumables {
		if c.Definition().Undesirable {
			continue
		}
		distance := kinematic.Distance(head, c.Position)
		// too close to be reached without turning sharper than the fov allows
		if distance+c.Size < bot.StepLength {
			continue
		}
		if distance < closest {
			closest = distance
			angle = kinematic.Bearing(head, c.Position)
		}
	}

	angle = bot.ClampHeading(angle)
	return avoidCollisions(state, bot, angle)
}

// avoidCollisions turns angle in fixed increments until the next step crosses no
// other trail. When every attempt collides the last angle tried is kept.
func avoidCollisions(state *types.GameState, bot *types.PlayerState, angle float64) float64 {
	if bot.IsGhost() || !nextStepCollides(state, bot, angle) {
		return angle
	}
	for attempt := 0; attempt < constants.BotAvoidanceAttempts; attempt++ {
		angle = kinematic.NormalizeAngle(angle + constants.BotAvoidanceStep)
		if !nextStepCollides(state, bot, angle) {
			return angle
		}
	}
	return angle
}

func nextStepCollides(state *types.GameState, bot *types.PlayerState, angle float64) bool {
	head := bot.Head()
	next := head.Add(kinematic.Displacement(angle, bot.StepLength))
	for _, other := range state.Players {
		if other == bot || other.IsGhost() {
			continue
		}
		if trailIntersects(head, next, other.Steps) {
			return true
		}
	}
	return false
}
