package game

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBotName(t *testing.T) {
	_, state := newTestPhysics()
	rng := rand.New(rand.NewSource(1))

	name, err := generateBotName(state, rng, 10)
	require.NoError(t, err)
	assert.Contains(t, name, " ")

	for _, adjective := range botNameAdjectives {
		for _, noun := range botNameNouns {
			id := fmt.Sprintf("%s %s", adjective, noun)
			state.AddPlayer(types.NewPlayerState(id, id, types.ColorPalette[0], kinematic.Vector{}, 40, math.Pi/4, true))
		}
	}
	_, err = generateBotName(state, rng, 10)
	assert.Error(t, err)
}

func TestBotDemand(t *testing.T) {
	tests := []struct {
		name          string
		humans        int
		bots          int
		minPlayers    int
		wantExcess    int
		wantShortfall int
	}{
		{name: "empty arena", humans: 0, bots: 0, minPlayers: 4, wantShortfall: 4},
		{name: "balanced", humans: 1, bots: 3, minPlayers: 4},
		{name: "human joined", humans: 2, bots: 3, minPlayers: 4, wantExcess: 1},
		{name: "humans alone suffice", humans: 5, bots: 2, minPlayers: 4, wantExcess: 2},
		{name: "bots disabled", humans: 1, bots: 1, minPlayers: 0, wantExcess: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, state := newTestPhysics()
			for i := 0; i < tt.humans; i++ {
				state.AddPlayer(newPhysicsPlayer(fmt.Sprintf("h%d", i), kinematic.Vector{}, 40, 0))
			}
			for i := 0; i < tt.bots; i++ {
				id := fmt.Sprintf("b%d", i)
				state.AddPlayer(types.NewPlayerState(id, id, types.ColorPalette[0], kinematic.Vector{}, 40, math.Pi/4, true))
			}
			excess, shortfall := botDemand(state, tt.minPlayers)
			assert.Equal(t, tt.wantExcess, excess)
			assert.Equal(t, tt.wantShortfall, shortfall)
		})
	}
}

func TestOldestBots(t *testing.T) {
	_, state := newTestPhysics()
	for _, id := range []string{"h1", "b1", "h2", "b2", "b3"} {
		state.AddPlayer(types.NewPlayerState(id, id, types.ColorPalette[0], kinematic.Vector{}, 40, math.Pi/4, id[0] == 'b'))
	}

	bots := oldestBots(state, 2)
	require.Len(t, bots, 2)
	assert.Equal(t, "b1", bots[0].ID)
	assert.Equal(t, "b2", bots[1].ID)
}

func newBot(id string, steps []kinematic.Vector, stepLength float64) *types.PlayerState {
	bot := types.NewPlayerState(id, id, types.ColorPalette[1], steps[0], stepLength, math.Pi/4, true)
	bot.Steps = steps
	return bot
}

func TestChooseBotAngle_Targets(t *testing.T) {
	type placed struct {
		consumableType types.ConsumableType
		position       kinematic.Vector
	}
	tests := []struct {
		name        string
		steps       []kinematic.Vector
		consumables []placed
		want        float64
	}{
		{
			name:  "nearest apple",
			steps: []kinematic.Vector{{X: 0, Y: 0}},
			consumables: []placed{
				{types.ConsumableTypeApple, kinematic.Vector{X: 300, Y: 0}},
				{types.ConsumableTypeApple, kinematic.Vector{X: 0, Y: 200}},
			},
			want: math.Pi / 2,
		},
		{
			name:  "poison is ignored",
			steps: []kinematic.Vector{{X: 0, Y: 0}},
			consumables: []placed{
				{types.ConsumableTypePoison, kinematic.Vector{X: 0, Y: 100}},
				{types.ConsumableTypeApple, kinematic.Vector{X: 0, Y: -300}},
			},
			want: -math.Pi / 2,
		},
		{
			name:  "too close to reach",
			steps: []kinematic.Vector{{X: 0, Y: 0}},
			consumables: []placed{
				{types.ConsumableTypeApple, kinematic.Vector{X: 10, Y: 0}},
				{types.ConsumableTypeApple, kinematic.Vector{X: 0, Y: -200}},
			},
			want: -math.Pi / 2,
		},
		{
			name:  "nothing to chase",
			steps: []kinematic.Vector{{X: 0, Y: 0}},
			want:  0,
		},
		{
			name:  "limited to the field of view",
			steps: []kinematic.Vector{{X: 0, Y: 0}, {X: 50, Y: 0}},
			consumables: []placed{
				{types.ConsumableTypeApple, kinematic.Vector{X: 50, Y: 300}},
			},
			want: math.Pi / 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, state := newTestPhysics()
			bot := newBot("bot", tt.steps, 50)
			state.AddPlayer(bot)
			for i, c := range tt.consumables {
				addConsumable(t, state, fmt.Sprintf("c%d", i), c.consumableType, c.position, 1)
			}
			assert.InDelta(t, tt.want, ChooseBotAngle(state, bot), 1e-9)
		})
	}
}

func TestChooseBotAngle_AvoidsTrails(t *testing.T) {
	wall := []kinematic.Vector{{X: 25, Y: -100}, {X: 25, Y: 100}}

	tests := []struct {
		name      string
		botGhost  bool
		wallGhost bool
		want      float64
	}{
		{name: "turns away", want: 1.1},
		{name: "ghost bot goes straight", botGhost: true, want: 0},
		{name: "ghost trail is ignored", wallGhost: true, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, state := newTestPhysics()
			bot := newBot("bot", []kinematic.Vector{{X: 0, Y: 0}}, 50)
			if tt.botGhost {
				bot.Buffs = append(bot.Buffs, types.NewBuff(types.BuffDefinitions[types.BuffTypeGhost]))
			}
			other := newBot("other", wall, 50)
			if tt.wallGhost {
				other.Buffs = append(other.Buffs, types.NewBuff(types.BuffDefinitions[types.BuffTypeGhost]))
			}
			state.AddPlayer(bot)
			state.AddPlayer(other)
			addConsumable(t, state, "apple", types.ConsumableTypeApple, kinematic.Vector{X: 200, Y: 0}, 1)

			assert.InDelta(t, tt.want, ChooseBotAngle(state, bot), 1e-9)
		})
	}
}

func TestChooseBotAngle_KeepsLastAttemptWhenBoxedIn(t *testing.T) {
	_, state := newTestPhysics()
	bot := newBot("bot", []kinematic.Vector{{X: 0, Y: 0}}, 50)
	box := newBot("box", []kinematic.Vector{
		{X: -30, Y: -30}, {X: 30, Y: -30}, {X: 30, Y: 30}, {X: -30, Y: 30}, {X: -30, Y: -30},
	}, 50)
	state.AddPlayer(bot)
	state.AddPlayer(box)

	assert.InDelta(t, kinematic.NormalizeAngle(5.0), ChooseBotAngle(state, bot), 1e-6)
}
