package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Loader message types
const (
	MsgLoaderMessage  MessageType = "loader_message"
	MsgLoaderInsight  MessageType = "loader_insight"
	MsgLoaderStalled  MessageType = "loader_stalled"
	MsgResonanceReady MessageType = "resonance_ready"
	MsgSessionReset   MessageType = "session_reset"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages loader connections grouped by session
type Hub struct {
	conns map[string]map[*Connection]bool // sessionID -> connections

	mu     sync.RWMutex
	logger *zap.Logger

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	quit       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
}

// BroadcastMessage is a message to deliver. With To set only that
// connection receives it. Close drops the targeted connections after
// anything queued before it.
type BroadcastMessage struct {
	SessionID string
	To        *Connection
	Message   *Message
	Close     bool
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		logger:     logger,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]bool)
			}
			h.conns[conn.SessionID][conn] = true
			h.mu.Unlock()
			h.logger.Debug("loader connected", zap.String("session", conn.SessionID))

		case conn := <-h.unregister:
			h.mu.Lock()
			h.drop(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.deliver(msg)
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, set := range h.conns {
				for conn := range set {
					h.drop(conn)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// drop removes a registered connection and closes its send channel. Must
// hold mu.
func (h *Hub) drop(conn *Connection) {
	set, ok := h.conns[conn.SessionID]
	if !ok || !set[conn] {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, conn.SessionID)
	}
	close(conn.Send)
	h.logger.Debug("loader disconnected", zap.String("session", conn.SessionID))
}

// deliver sends or closes per msg. Must hold mu.
func (h *Hub) deliver(msg *BroadcastMessage) {
	var targets []*Connection
	if msg.To != nil {
		if h.conns[msg.SessionID][msg.To] {
			targets = append(targets, msg.To)
		}
	} else {
		for conn := range h.conns[msg.SessionID] {
			targets = append(targets, conn)
		}
	}

	if msg.Message != nil {
		data, err := json.Marshal(msg.Message)
		if err != nil {
			h.logger.Error("failed to encode message", zap.String("type", string(msg.Message.Type)), zap.Error(err))
			return
		}
		for _, conn := range targets {
			select {
			case conn.Send <- data:
			default:
				// Drop message if buffer full
			}
		}
	}
	if msg.Close {
		for _, conn := range targets {
			h.drop(conn)
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.quit:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.quit:
	}
}

func (h *Hub) enqueue(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.quit:
	}
}

func newMessage(msgType MessageType, payload interface{}) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: msgType, Payload: data}
}

// SendTo sends a message to one connection
func (h *Hub) SendTo(conn *Connection, msgType MessageType, payload interface{}) {
	h.enqueue(&BroadcastMessage{
		SessionID: conn.SessionID,
		To:        conn,
		Message:   newMessage(msgType, payload),
	})
}

// Finish sends a last message to one connection and closes it
func (h *Hub) Finish(conn *Connection, msgType MessageType, payload interface{}) {
	h.enqueue(&BroadcastMessage{
		SessionID: conn.SessionID,
		To:        conn,
		Message:   newMessage(msgType, payload),
		Close:     true,
	})
}

// BroadcastToSession sends a message to every loader of a session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	h.enqueue(&BroadcastMessage{
		SessionID: sessionID,
		Message:   newMessage(MessageType(msgType), payload),
	})
}

// DisconnectSession closes every loader of a session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.enqueue(&BroadcastMessage{SessionID: sessionID, Close: true})
}

// Connections returns the number of open loaders for a session
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// Close stops the hub and closes every connection
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
	<-h.stopped
}
