package network

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
	"github.com/gorilla/websocket"
)

const (
	// DefaultWriteTimeout bounds a single websocket write
	DefaultWriteTimeout = 5 * time.Second
)

// WSServer upgrades HTTP requests to WebSocket connections and serves them.
type WSServer struct {
	clientManager *ClientManager
	writeTimeout  time.Duration
}

type NewWSServerOptions struct {
	ClientManager *ClientManager
	WriteTimeout  time.Duration
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &WSServer{
		clientManager: opts.ClientManager,
		writeTimeout:  writeTimeout,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  messages.MessageBufferSize,
	WriteBufferSize: messages.MessageBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ControlMessageHandler handles a message read from a client.
type ControlMessageHandler func(ctx context.Context, client *Client, message *messages.Message)

// Handler returns the HTTP handler upgrading requests to WebSocket connections.
// The codec and compress query parameters select the outbound encoding.
func (s *WSServer) Handler(ctx context.Context, messageHandler ControlMessageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		encoding, err := messages.ParseEncoding(r.URL.Query().Get("codec"), r.URL.Query().Get("compress"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		log.Debug("New WebSocket connection from %s", conn.RemoteAddr().String())

		client, err := s.clientManager.ConnectClient(conn, encoding)
		if err != nil {
			log.Error("Failed to connect client: %v", err)
			conn.Close()
			return
		}

		go s.writeLoop(client, conn)
		s.handleWSConnection(ctx, client, conn, messageHandler)
	}
}

// handleWSConnection reads messages until the connection closes.
func (s *WSServer) handleWSConnection(ctx context.Context, client *Client, conn *websocket.Conn, messageHandler ControlMessageHandler) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.clientManager.DisconnectClient(client.ID)
		log.Info("Client %d disconnected", client.ID)
	}()

	go func() {
		// closing the connection unblocks the reader on shutdown
		select {
		case <-ctx.Done():
			s.clientManager.CloseClient(client.ID)
		case <-client.Done():
		}
	}()

	conn.SetReadLimit(messages.MessageBufferSize)
	for {
		message, err := ReadMessageFromWS(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", conn.RemoteAddr().String(), err)
			}
			log.Trace("Connection closed for %s", conn.RemoteAddr().String())
			return
		}
		if message == nil {
			continue
		}

		// messages are handled in order so steering updates are never reordered
		messageHandler(ctx, client, message)
	}
}

// writeLoop drains the client's outbound buffer into the connection.
func (s *WSServer) writeLoop(client *Client, conn *websocket.Conn) {
	frameType := websocket.TextMessage
	if client.Encoding.Binary() {
		frameType = websocket.BinaryMessage
	}

	for {
		select {
		case <-client.Done():
			return
		case b := <-client.Outbound():
			if err := WriteMessageToWS(conn, frameType, b, s.writeTimeout); err != nil {
				log.Error("Failed to write to client %d: %v", client.ID, err)
				s.clientManager.CloseClient(client.ID)
				return
			}
		}
	}
}

// WriteMessageToWS writes an encoded message to a WebSocket connection
func WriteMessageToWS(conn *websocket.Conn, frameType int, b []byte, timeout time.Duration) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %v", err)
	}
	if err := conn.WriteMessage(frameType, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}
	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection.
// Malformed messages are logged and returned as nil.
func ReadMessageFromWS(conn *websocket.Conn) (*messages.Message, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeInbound(data)
	if err != nil {
		log.Warn("Dropping malformed message from %s: %v", conn.RemoteAddr().String(), err)
		return nil, nil
	}

	return msg, nil
}
