package network

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 1024
	// ConnectionEventChannelSize represents the size of the connection event channel
	ConnectionEventChannelSize = 1024
	// DefaultSendBufferSize is the number of outbound messages buffered per client
	DefaultSendBufferSize = 16
)

var ErrAlreadyJoined = errors.New("already joined")

// Conn is the part of a connection the client manager needs.
type Conn interface {
	Close() error
}

// Client represents a connected client
type Client struct {
	ID       uint32
	PlayerID string
	Encoding messages.Encoding
	conn     Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
}

// Send queues an encoded message for the client's writer without blocking.
// It returns false when the buffer is full or the client is closed.
func (c *Client) Send(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Outbound returns the channel the client's writer drains.
func (c *Client) Outbound() <-chan []byte {
	return c.send
}

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// close closes the underlying connection once.
func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		if err := c.conn.Close(); err != nil {
			log.Trace("Failed to close connection for client %d: %v", c.ID, err)
		}
	})
}

// ConnectionEvent represents an event that happened to a connection
type ConnectionEvent struct {
	ClientID uint32
	// PlayerID is the player the connection was bound to, if any
	PlayerID string
	Type     ConnectionEventType
}

// ConnectionEventType represents the type of a connection event
type ConnectionEventType int

const (
	ConnectionEventTypeConnect ConnectionEventType = iota
	ConnectionEventTypeDisconnect
)

// ClientManager manages connected clients
type ClientManager struct {
	clients             map[uint32]*Client
	clientsLock         sync.RWMutex
	connectionEventChan chan ConnectionEvent
	sendBufferSize      int
	rng                 *rand.Rand
}

type NewClientManagerOptions struct {
	SendBufferSize int
	// Rand is used for client ids, it is only read with the clients lock held
	Rand *rand.Rand
}

// NewClientManager creates a new ClientManager
func NewClientManager(opts NewClientManagerOptions) *ClientManager {
	sendBufferSize := opts.SendBufferSize
	if sendBufferSize <= 0 {
		sendBufferSize = DefaultSendBufferSize
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &ClientManager{
		clients:             make(map[uint32]*Client),
		connectionEventChan: make(chan ConnectionEvent, ConnectionEventChannelSize),
		sendBufferSize:      sendBufferSize,
		rng:                 rng,
	}
}

// GetConnectionEventChan returns a one-way channel for receiving connection events
func (cm *ClientManager) GetConnectionEventChan() <-chan ConnectionEvent {
	return cm.connectionEventChan
}

// GetClients returns a snapshot of all connected clients.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

// GetBoundClients returns a snapshot of the clients bound to a player.
func (cm *ClientManager) GetBoundClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		if client.PlayerID != "" {
			clients = append(clients, client)
		}
	}
	return clients
}

// GetClient returns the client with the given ID
func (cm *ClientManager) GetClient(clientID uint32) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	client, ok := cm.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %d not found", clientID)
	}
	return client, nil
}

// ConnectClient adds a new client to the manager and returns it
func (cm *ClientManager) ConnectClient(conn Conn, encoding messages.Encoding) (*Client, error) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	client := &Client{
		ID:       clientID,
		Encoding: encoding,
		conn:     conn,
		send:     make(chan []byte, cm.sendBufferSize),
		done:     make(chan struct{}),
	}
	cm.clients[clientID] = client

	cm.emit(ConnectionEvent{
		ClientID: clientID,
		Type:     ConnectionEventTypeConnect,
	})

	return client, nil
}

// DisconnectClient closes a client and removes it from the manager
func (cm *ClientManager) DisconnectClient(clientID uint32) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return
	}
	client.close()
	delete(cm.clients, clientID)

	cm.emit(ConnectionEvent{
		ClientID: client.ID,
		PlayerID: client.PlayerID,
		Type:     ConnectionEventTypeDisconnect,
	})
}

// CloseClient closes the connection of a client. The client is removed once its
// reader notices the closed connection.
func (cm *ClientManager) CloseClient(clientID uint32) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	if client, ok := cm.clients[clientID]; ok {
		client.close()
	}
}

// BindPlayer binds a client to a player.
func (cm *ClientManager) BindPlayer(clientID uint32, playerID string) error {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return fmt.Errorf("client %d not found", clientID)
	}
	if client.PlayerID != "" {
		return ErrAlreadyJoined
	}
	client.PlayerID = playerID
	return nil
}

// GetPlayerID returns the player bound to a client, or an empty string.
func (cm *ClientManager) GetPlayerID(clientID uint32) string {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	if client, ok := cm.clients[clientID]; ok {
		return client.PlayerID
	}
	return ""
}

// IsConnected reports whether an open client is bound to the player.
func (cm *ClientManager) IsConnected(playerID string) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	for _, client := range cm.clients {
		if client.PlayerID != playerID {
			continue
		}
		select {
		case <-client.done:
		default:
			return true
		}
	}
	return false
}

// GetPlayerClients returns the clients bound to a player.
func (cm *ClientManager) GetPlayerClients(playerID string) []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, 1)
	for _, client := range cm.clients {
		if client.PlayerID == playerID {
			clients = append(clients, client)
		}
	}
	return clients
}

// emit must be called with the clients lock held.
func (cm *ClientManager) emit(event ConnectionEvent) {
	select {
	case cm.connectionEventChan <- event:
	default:
		log.Error("Connection event channel is full, dropping event for client %d", event.ClientID)
	}
}

// generateUniqueID generates a unique client ID with a maximum number of retries
// it reads from the clients, so it needs to be locked before calling
func (cm *ClientManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := cm.rng.Uint32()
		if id == 0 {
			continue
		}
		if _, ok := cm.clients[id]; !ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
