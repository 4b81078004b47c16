package workers

import (
	"context"

	gametypes "github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/network"
	"github.com/cbodonnell/leglesslizard/pkg/queue"
)

type ConnectionEventWorker struct {
	connectionEventChan <-chan network.ConnectionEvent
	serverEventQueue    queue.Queue
}

type NewConnectionEventWorkerOptions struct {
	ConnectionEventChan <-chan network.ConnectionEvent
	ServerEventQueue    queue.Queue
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker processes connection events like connect and disconnect
// and writes server events to a queue for the game loop to process.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		connectionEventChan: opts.ConnectionEventChan,
		serverEventQueue:    opts.ServerEventQueue,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.connectionEventChan:
			w.handleConnectionEvent(event)
		}
	}
}

func (w *ConnectionEventWorker) handleConnectionEvent(event network.ConnectionEvent) {
	switch event.Type {
	case network.ConnectionEventTypeConnect:
		log.Debug("Client %d connected", event.ClientID)
	case network.ConnectionEventTypeDisconnect:
		w.handleClientDisconnect(event)
	default:
		log.Error("Unknown connection event type: %v", event.Type)
	}
}

func (w *ConnectionEventWorker) handleClientDisconnect(event network.ConnectionEvent) {
	if event.PlayerID == "" {
		// the client never joined
		return
	}
	if err := w.serverEventQueue.Enqueue(&gametypes.DisconnectPlayerEvent{
		PlayerID: event.PlayerID,
	}); err != nil {
		log.Error("Failed to enqueue disconnect player event: %v", err)
	}
}
