package network

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
)

// ControlHandler receives the control messages of bound and unbound clients.
type ControlHandler interface {
	Join(req *messages.JoinRequest, bind func(playerID string)) *messages.JoinResponse
	HandleClientUpdate(update *messages.ClientUpdate) error
}

type NetworkManager struct {
	ClientManager *ClientManager
	WSServer      *WSServer

	handlerLock    sync.RWMutex
	controlHandler ControlHandler
}

type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	WriteTimeout  time.Duration
}

func NewNetworkManager(opts NewNetworkManagerOptions) *NetworkManager {
	return &NetworkManager{
		ClientManager: opts.ClientManager,
		WSServer: NewWSServer(NewWSServerOptions{
			ClientManager: opts.ClientManager,
			WriteTimeout:  opts.WriteTimeout,
		}),
	}
}

// SetControlHandler sets the receiver of join requests and client updates.
func (n *NetworkManager) SetControlHandler(handler ControlHandler) {
	n.handlerLock.Lock()
	defer n.handlerLock.Unlock()
	n.controlHandler = handler
}

func (n *NetworkManager) getControlHandler() ControlHandler {
	n.handlerLock.RLock()
	defer n.handlerLock.RUnlock()
	return n.controlHandler
}

// WSHandler returns the HTTP handler serving game connections.
func (n *NetworkManager) WSHandler(ctx context.Context) http.HandlerFunc {
	return n.WSServer.Handler(ctx, n.handleControlMessage)
}

func (n *NetworkManager) handleControlMessage(ctx context.Context, client *Client, message *messages.Message) {
	handler := n.getControlHandler()
	if handler == nil {
		log.Warn("No control handler set, dropping %s message from client %d", message.Type, client.ID)
		return
	}

	switch message.Type {
	case messages.MessageTypeJoinRequest:
		if err := n.handleJoinRequest(handler, client, message); err != nil {
			log.Error("Failed to handle join request: %v", err)
		}
	case messages.MessageTypeClientUpdate:
		if err := n.handleClientUpdate(handler, client, message); err != nil {
			log.Error("Failed to handle client update: %v", err)
		}
	default:
		log.Warn("Unhandled message type from client %d: %s", client.ID, message.Type)
	}
}

func (n *NetworkManager) handleJoinRequest(handler ControlHandler, client *Client, message *messages.Message) error {
	joinRequest := &messages.JoinRequest{}
	if err := message.DecodePayload(joinRequest); err != nil {
		return fmt.Errorf("failed to decode join request: %v", err)
	}

	var response *messages.JoinResponse
	if n.ClientManager.GetPlayerID(client.ID) != "" {
		response = &messages.JoinResponse{OK: false, Reason: ErrAlreadyJoined.Error()}
	} else {
		var bindErr error
		response = handler.Join(joinRequest, func(playerID string) {
			bindErr = n.ClientManager.BindPlayer(client.ID, playerID)
		})
		if bindErr != nil {
			// the player is pruned on the next tick since nothing is bound to it
			log.Error("Failed to bind client %d to player %s: %v", client.ID, response.PlayerID, bindErr)
		}
	}

	if err := n.SendMessageToClient(client, messages.MessageTypeJoinResponse, response); err != nil {
		return fmt.Errorf("failed to send join response: %v", err)
	}
	return nil
}

func (n *NetworkManager) handleClientUpdate(handler ControlHandler, client *Client, message *messages.Message) error {
	clientUpdate := &messages.ClientUpdate{}
	if err := message.DecodePayload(clientUpdate); err != nil {
		return fmt.Errorf("failed to decode client update: %v", err)
	}

	playerID := n.ClientManager.GetPlayerID(client.ID)
	if playerID == "" || playerID != clientUpdate.PlayerID {
		log.Warn("Client %d sent an update for player %s it is not bound to", client.ID, clientUpdate.PlayerID)
		return nil
	}

	return handler.HandleClientUpdate(clientUpdate)
}

// SendMessageToClient encodes a message for one client and queues it.
func (n *NetworkManager) SendMessageToClient(client *Client, messageType messages.MessageType, payload interface{}) error {
	b, err := client.Encoding.SerializeMessage(messageType, payload)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}
	if !client.Send(b) {
		n.dropClient(client)
		return fmt.Errorf("send buffer of client %d is full", client.ID)
	}
	return nil
}

// Broadcast sends a message to every connected client.
func (n *NetworkManager) Broadcast(messageType messages.MessageType, payload interface{}) {
	n.sendToClients(n.ClientManager.GetClients(), messageType, payload)
}

// Publish sends a state update to every client bound to a player.
func (n *NetworkManager) Publish(update *messages.StateUpdate) {
	n.sendToClients(n.ClientManager.GetBoundClients(), messages.MessageTypeStateUpdate, update)
}

// sendToClients encodes the message once per encoding in use.
func (n *NetworkManager) sendToClients(clients []*Client, messageType messages.MessageType, payload interface{}) {
	encoded := make(map[messages.Encoding][]byte)
	for _, client := range clients {
		b, ok := encoded[client.Encoding]
		if !ok {
			var err error
			b, err = client.Encoding.SerializeMessage(messageType, payload)
			if err != nil {
				log.Error("Failed to serialize %s message: %v", messageType, err)
				continue
			}
			encoded[client.Encoding] = b
		}
		if !client.Send(b) {
			n.dropClient(client)
		}
	}
}

func (n *NetworkManager) dropClient(client *Client) {
	select {
	case <-client.Done():
		return
	default:
	}
	log.Warn("Send buffer of client %d is full, closing connection", client.ID)
	n.ClientManager.CloseClient(client.ID)
}

// IsConnected reports whether a live connection is bound to the player.
func (n *NetworkManager) IsConnected(playerID string) bool {
	return n.ClientManager.IsConnected(playerID)
}

// Disconnect closes every connection bound to the player.
func (n *NetworkManager) Disconnect(playerID string) {
	for _, client := range n.ClientManager.GetPlayerClients(playerID) {
		n.ClientManager.CloseClient(client.ID)
	}
}
