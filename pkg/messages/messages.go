package messages

import (
	"encoding/json"

	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
)

const (
	// MessageBufferSize represents the maximum size of an inbound message
	MessageBufferSize = 4096
)

type MessageType string

// Message types
const (
	MessageTypeJoinRequest   MessageType = "join_request"
	MessageTypeJoinResponse  MessageType = "join_response"
	MessageTypeClientUpdate  MessageType = "client_update"
	MessageTypeStateUpdate   MessageType = "state_update"
	MessageTypePlayerJoined  MessageType = "player_joined"
	MessageTypePlayerRemoved MessageType = "player_removed"
)

// Message represents an inbound message envelope
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope is the outbound counterpart of Message
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

type JoinRequest struct {
	Name string `json:"name"`
	// Color is optional, the server picks one when it is missing or taken
	Color *[3]int `json:"color,omitempty"`
}

type JoinResponse struct {
	PlayerID string `json:"playerId"`
	OK       bool   `json:"ok"`
	Reason   string `json:"reason,omitempty"`
}

type ClientUpdate struct {
	Tick     int64   `json:"tick"`
	PlayerID string  `json:"playerId"`
	Angle    float64 `json:"angle"`
}

type StateUpdate struct {
	Tick int64 `json:"tick"`
	// TickPeriod is in seconds
	TickPeriod float64 `json:"tickPeriod"`
	// ServerTimestamp and ServerNextTickTime are unix milliseconds
	ServerTimestamp    int64                `json:"serverTimestamp"`
	ServerNextTickTime int64                `json:"serverNextTickTime"`
	Players            []PlayerSnapshot     `json:"players"`
	Consumables        []ConsumableSnapshot `json:"consumables"`
	GlobalBuffs        []BuffSnapshot       `json:"globalBuffs"`
	MapBounds          MapBounds            `json:"mapBounds"`
}

type PlayerSnapshot struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Color      [3]int             `json:"color"`
	Steps      []kinematic.Vector `json:"steps"`
	StepLength float64            `json:"stepLength"`
	Angle      float64            `json:"angle"`
	Buffs      []BuffSnapshot     `json:"buffs"`
	IsBot      bool               `json:"isBot"`
	Spawned    bool               `json:"spawned"`
}

type ConsumableSnapshot struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Position kinematic.Vector `json:"position"`
	Size     float64          `json:"size"`
	Color    [3]int           `json:"color"`
}

type BuffSnapshot struct {
	Type              string `json:"type"`
	FriendlyName      string `json:"friendlyName"`
	DurationRemaining int    `json:"durationRemaining"`
	IsDebuff          bool   `json:"isDebuff"`
}

type MapBounds struct {
	Min kinematic.Vector `json:"min"`
	Max kinematic.Vector `json:"max"`
}

type PlayerRemovedReason string

const (
	PlayerRemovedReasonDisconnected      PlayerRemovedReason = "disconnected"
	PlayerRemovedReasonKicked            PlayerRemovedReason = "kicked"
	PlayerRemovedReasonCapacityRebalance PlayerRemovedReason = "capacity_rebalance"
)

type PlayerJoined struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	IsBot    bool   `json:"isBot"`
}

type PlayerRemoved struct {
	PlayerID string              `json:"playerId"`
	Reason   PlayerRemovedReason `json:"reason"`
}
