package network

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
	"github.com/cbodonnell/leglesslizard/pkg/queue"
	"github.com/gorilla/websocket"
)

// WSClient is a headless game client.
type WSClient struct {
	serverURL     string
	encoding      messages.Encoding
	eventQueue    queue.Queue
	conn          *websocket.Conn
	writeLock     sync.Mutex
	joinResponses chan *messages.JoinResponse
	stateUpdates  chan *messages.StateUpdate
}

type NewWSClientOptions struct {
	// ServerURL is the websocket endpoint, e.g. ws://localhost:8080/ws
	ServerURL string
	Encoding  messages.Encoding
	// EventQueue receives the PlayerJoined and PlayerRemoved payloads broadcast by the server
	EventQueue queue.Queue
}

// NewWSClient creates a new WebSocket client.
func NewWSClient(opts NewWSClientOptions) *WSClient {
	return &WSClient{
		serverURL:     opts.ServerURL,
		encoding:      opts.Encoding,
		eventQueue:    opts.EventQueue,
		joinResponses: make(chan *messages.JoinResponse, 1),
		stateUpdates:  make(chan *messages.StateUpdate, 1),
	}
}

// Connect establishes a connection to the WebSocket server, asking it for the client's encoding.
func (c *WSClient) Connect(ctx context.Context) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("failed to parse server url: %v", err)
	}
	q := u.Query()
	q.Set("codec", string(c.encoding.Codec))
	q.Set("compress", string(c.encoding.Compression))
	u.RawQuery = q.Encode()

	log.Info("Connecting to WebSocket server at %s", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	c.conn = conn
	return nil
}

// StateUpdates returns the latest state update not yet received. Older
// updates are dropped when the reader falls behind.
func (c *WSClient) StateUpdates() <-chan *messages.StateUpdate {
	return c.stateUpdates
}

// HandleMessages reads messages from the server until the connection closes or ctx is done.
func (c *WSClient) HandleMessages(ctx context.Context) error {
	defer c.conn.Close()

	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", c.conn.RemoteAddr().String(), err)
			}
			return err
		}

		if err := c.handleMessage(data); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

func (c *WSClient) handleMessage(data []byte) error {
	msg, err := c.encoding.DeserializeServerMessage(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize message: %v", err)
	}
	log.Trace("Received message from WebSocket server of type %s", msg.Type)

	switch msg.Type {
	case messages.MessageTypeJoinResponse:
		response := &messages.JoinResponse{}
		if err := msg.DecodePayload(response); err != nil {
			return err
		}
		select {
		case c.joinResponses <- response:
		default:
			log.Warn("Dropping unexpected join response")
		}
	case messages.MessageTypeStateUpdate:
		update := &messages.StateUpdate{}
		if err := msg.DecodePayload(update); err != nil {
			return err
		}
		offerLatest(c.stateUpdates, update)
	case messages.MessageTypePlayerJoined:
		joined := &messages.PlayerJoined{}
		if err := msg.DecodePayload(joined); err != nil {
			return err
		}
		return c.enqueueEvent(joined)
	case messages.MessageTypePlayerRemoved:
		removed := &messages.PlayerRemoved{}
		if err := msg.DecodePayload(removed); err != nil {
			return err
		}
		return c.enqueueEvent(removed)
	default:
		return fmt.Errorf("received unexpected message type from WebSocket server: %s", msg.Type)
	}
	return nil
}

func (c *WSClient) enqueueEvent(event interface{}) error {
	if c.eventQueue == nil {
		return nil
	}
	if err := c.eventQueue.Enqueue(event); err != nil {
		return fmt.Errorf("failed to enqueue event: %v", err)
	}
	return nil
}

// offerLatest replaces any unread update with update. Only the reader sends on ch.
func offerLatest(ch chan *messages.StateUpdate, update *messages.StateUpdate) {
	for {
		select {
		case ch <- update:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Join asks the server for a player and waits for the answer.
// HandleMessages must be running.
func (c *WSClient) Join(ctx context.Context, req *messages.JoinRequest) (*messages.JoinResponse, error) {
	if err := c.SendMessage(messages.MessageTypeJoinRequest, req); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case response := <-c.joinResponses:
		if !response.OK {
			return response, fmt.Errorf("join rejected: %s", response.Reason)
		}
		return response, nil
	}
}

// SendClientUpdate steers the client's player.
func (c *WSClient) SendClientUpdate(update *messages.ClientUpdate) error {
	return c.SendMessage(messages.MessageTypeClientUpdate, update)
}

// SendMessage sends a JSON message to the WebSocket server.
func (c *WSClient) SendMessage(messageType messages.MessageType, payload interface{}) error {
	b, err := messages.DefaultEncoding.SerializeMessage(messageType, payload)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}
	return nil
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
