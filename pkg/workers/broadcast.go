package workers

import (
	"context"

	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
)

const (
	// BroadcastChannelSize represents the size of the broadcast message channel
	BroadcastChannelSize = 1024
)

// Broadcaster sends a message to every connected client.
type Broadcaster interface {
	Broadcast(messageType messages.MessageType, payload interface{})
}

type BroadcastMessageWorker struct {
	broadcaster          Broadcaster
	broadcastMessageChan <-chan BroadcastMessage
}

type BroadcastMessage struct {
	Type    messages.MessageType
	Message interface{}
}

type NewBroadcastMessageWorkerOptions struct {
	Broadcaster          Broadcaster
	BroadcastMessageChan <-chan BroadcastMessage
}

func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		broadcaster:          opts.Broadcaster,
		broadcastMessageChan: opts.BroadcastMessageChan,
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.broadcastMessageChan:
			w.handleBroadcastMessage(msg)
		}
	}
}

func (w *BroadcastMessageWorker) handleBroadcastMessage(msg BroadcastMessage) {
	switch msg.Type {
	case messages.MessageTypePlayerJoined:
		if _, ok := msg.Message.(*messages.PlayerJoined); !ok {
			log.Error("Failed to cast player joined message: %T", msg.Message)
			return
		}
	case messages.MessageTypePlayerRemoved:
		if _, ok := msg.Message.(*messages.PlayerRemoved); !ok {
			log.Error("Failed to cast player removed message: %T", msg.Message)
			return
		}
	default:
		log.Error("Unknown broadcast message type: %v", msg.Type)
		return
	}
	w.broadcaster.Broadcast(msg.Type, msg.Message)
}
