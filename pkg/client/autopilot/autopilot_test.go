package autopilot

import (
	"math"
	"testing"

	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
	"github.com/stretchr/testify/assert"
)

func TestChooseAngle(t *testing.T) {
	player := messages.PlayerSnapshot{
		ID:    "p1",
		Steps: []kinematic.Vector{{X: -50, Y: 0}, {X: 0, Y: 0}},
		Angle: 0.3,
	}

	tests := []struct {
		name        string
		playerID    string
		consumables []messages.ConsumableSnapshot
		want        float64
		wantOK      bool
	}{
		{
			name:     "nearest apple",
			playerID: "p1",
			consumables: []messages.ConsumableSnapshot{
				{ID: "a", Type: "apple", Position: kinematic.Vector{X: 0, Y: 300}},
				{ID: "b", Type: "grape", Position: kinematic.Vector{X: 0, Y: -100}},
			},
			want:   -math.Pi / 2,
			wantOK: true,
		},
		{
			name:     "poison avoided",
			playerID: "p1",
			consumables: []messages.ConsumableSnapshot{
				{ID: "a", Type: "poison", Position: kinematic.Vector{X: 10, Y: 0}},
				{ID: "b", Type: "apple", Position: kinematic.Vector{X: -100, Y: 0}},
			},
			want:   math.Pi,
			wantOK: true,
		},
		{
			name:     "nothing wanted keeps heading",
			playerID: "p1",
			want:     0.3,
			wantOK:   true,
		},
		{
			name:     "not in the update",
			playerID: "p2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := &messages.StateUpdate{
				Players:     []messages.PlayerSnapshot{player},
				Consumables: tt.consumables,
			}
			got, ok := ChooseAngle(update, tt.playerID)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
