package types

// DisconnectPlayerEvent is queued by the connection layer when the connection
// bound to a player closes.
type DisconnectPlayerEvent struct {
	PlayerID string
}
