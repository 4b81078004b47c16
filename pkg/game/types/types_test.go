package types

import (
	"testing"

	"github.com/cbodonnell/leglesslizard/pkg/collisions"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCatalogs(t *testing.T) {
	require.NoError(t, ValidateCatalogs())
}

func TestValidateConsumableDefinition(t *testing.T) {
	valid := ConsumableDefinitions[0]

	tests := []struct {
		name   string
		modify func(d *ConsumableDefinition)
	}{
		{name: "unknown buff", modify: func(d *ConsumableDefinition) { d.Buff = "nope" }},
		{name: "inverted range", modify: func(d *ConsumableDefinition) { d.SizeMultiplierRange = [2]float64{2, 1} }},
		{name: "missing curve", modify: func(d *ConsumableDefinition) { d.SizeEffect = nil }},
		{name: "zero size", modify: func(d *ConsumableDefinition) { d.Size = 0 }},
		{name: "bad color", modify: func(d *ConsumableDefinition) { d.Color = Color{0, 300, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.modify(&d)
			assert.Error(t, validateConsumableDefinition(d))
		})
	}
}

func TestPlayerState_ClampHeading(t *testing.T) {
	p := NewPlayerState("id", "name", Color{}, kinematic.Vector{}, 40, 0.5, false)
	// no segment yet: any heading is accepted
	assert.Equal(t, 3.0, p.ClampHeading(3.0))

	p.Steps = append(p.Steps, kinematic.Vector{X: 10, Y: 0})
	assert.InDelta(t, 0.5, p.ClampHeading(3.0), 1e-9)
	assert.InDelta(t, -0.5, p.ClampHeading(-1.0), 1e-9)
	assert.InDelta(t, 0.25, p.ClampHeading(0.25), 1e-9)
}

func TestGameState_RemoveConsumables(t *testing.T) {
	g := NewGameState(collisions.NewSquareBounds(2000), 0, 50)
	apple, _ := GetConsumableDefinition(ConsumableTypeApple)
	for _, id := range []string{"a", "b", "c"} {
		g.AddConsumable(NewConsumable(id, apple, kinematic.Vector{}, 10))
	}

	g.RemoveConsumables(map[string]struct{}{"b": {}})

	require.Len(t, g.Consumables, 2)
	assert.Equal(t, "a", g.Consumables[0].ID)
	assert.Equal(t, "c", g.Consumables[1].ID)
	assert.Equal(t, 2, g.ConsumableSpace.Len())
}

func TestGameState_RemovePlayer(t *testing.T) {
	g := NewGameState(collisions.NewSquareBounds(2000), 0, 50)
	g.AddPlayer(NewPlayerState("1", "one", Color{}, kinematic.Vector{}, 40, 0.5, false))
	g.AddPlayer(NewPlayerState("2", "two", Color{}, kinematic.Vector{}, 40, 0.5, true))

	assert.Nil(t, g.RemovePlayer("3"))
	removed := g.RemovePlayer("1")
	require.NotNil(t, removed)
	assert.Equal(t, "one", removed.Name)
	humans, bots := g.CountPlayers()
	assert.Equal(t, 0, humans)
	assert.Equal(t, 1, bots)
}
