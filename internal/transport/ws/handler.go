package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"quantumconnections/internal/model"
	"quantumconnections/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles loader WebSocket connections
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	sessions *service.SessionService
	every    time.Duration
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler. every is the loader message
// rotation interval.
func NewHandler(hub *Hub, authSvc *service.AuthService, sessions *service.SessionService, every time.Duration, logger *zap.Logger) *Handler {
	if every <= 0 {
		every = 1500 * time.Millisecond
	}
	return &Handler{
		hub:      hub,
		authSvc:  authSvc,
		sessions: sessions,
		every:    every,
		logger:   logger,
	}
}

// LoaderWS handles GET /v1/ws/sessions/{id}/loader
func (h *Handler) LoaderWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.SessionID != id {
		http.Error(w, "token not valid for this session", http.StatusForbidden)
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if errors.Is(err, service.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	if session.Step == model.AppInput {
		http.Error(w, "nothing submitted", http.StatusConflict)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		SessionID: id,
		Send:      make(chan []byte, 256),
	}
	h.hub.Register(conn)

	// Lives until the client goes away, not until the upgrade request returns.
	ctx, cancel := context.WithCancel(context.Background())

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, cancel)
	go h.stream(ctx, conn)
}

// stream rotates loader messages until the session's request is joined,
// then sends the outcome and closes the connection.
func (h *Handler) stream(ctx context.Context, conn *Connection) {
	h.hub.SendTo(conn, MsgLoaderInsight, randomInsight())
	h.hub.SendTo(conn, MsgLoaderMessage, loaderMessage(0))

	type joined struct {
		session *model.Session
		err     error
	}
	done := make(chan joined, 1)
	go func() {
		s, err := h.sessions.Await(ctx, conn.SessionID, func() {
			h.hub.SendTo(conn, MsgLoaderStalled, map[string]string{"status": "waiting"})
		})
		done <- joined{s, err}
	}()

	ticker := time.NewTicker(h.every)
	defer ticker.Stop()

	tick := 1
	for {
		select {
		case j := <-done:
			h.finish(ctx, conn, j.session, j.err)
			return
		case <-ticker.C:
			h.hub.SendTo(conn, MsgLoaderMessage, loaderMessage(tick))
			tick++
		}
	}
}

func (h *Handler) finish(ctx context.Context, conn *Connection, session *model.Session, err error) {
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, service.ErrWrongStep) {
			// Reset while connecting; report the fresh wizard.
			if s, gerr := h.sessions.Get(ctx, conn.SessionID); gerr == nil {
				h.hub.Finish(conn, MsgSessionReset, service.BuildView(s))
				return
			}
		}
		h.logger.Error("loader join failed", zap.String("session", conn.SessionID), zap.Error(err))
		h.hub.Finish(conn, MsgError, map[string]string{"error": err.Error()})
		return
	}

	if session.Step == model.AppResult {
		h.hub.Finish(conn, MsgResonanceReady, service.BuildView(session))
		return
	}
	h.hub.Finish(conn, MsgSessionReset, service.BuildView(session))
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, cancel context.CancelFunc) {
	defer func() {
		cancel()
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket error", zap.String("session", conn.SessionID), zap.Error(err))
			}
			break
		}
		// The loader is push only; client frames are ignored.
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
