package service

// MsgSessionReset is pushed to loader connections when their session is reset
const MsgSessionReset = "session_reset"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}
