package autopilot

import (
	"math"

	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
)

// ChooseAngle heads the player toward the nearest consumable it wants.
// It keeps the current heading when nothing is worth chasing, and reports
// false when the player is not part of the update.
func ChooseAngle(update *messages.StateUpdate, playerID string) (float64, bool) {
	var player *messages.PlayerSnapshot
	for i := range update.Players {
		if update.Players[i].ID == playerID {
			player = &update.Players[i]
			break
		}
	}
	if player == nil || len(player.Steps) == 0 {
		return 0, false
	}

	head := player.Steps[len(player.Steps)-1]
	angle := player.Angle
	closest := math.Inf(1)
	for _, c := range update.Consumables {
		definition, ok := types.GetConsumableDefinition(types.ConsumableType(c.Type))
		if !ok || definition.Undesirable {
			continue
		}
		if distance := kinematic.Distance(head, c.Position); distance < closest {
			closest = distance
			angle = kinematic.Bearing(head, c.Position)
		}
	}
	return angle, true
}
