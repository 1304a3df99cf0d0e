package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/phrazzld/watercycle-memory/internal/events"
)

// Hub tracks websocket clients per game session and fans events out to them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[*Client]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
	closed   bool
}

// Ensure Hub implements events.EventHandler.
var _ events.EventHandler = (*Hub)(nil)

// NewHub creates an empty hub. The upgrader only accepts same-origin
// browser connections.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[uuid.UUID]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With("component", "realtime_hub"),
	}
}

// ServeSession upgrades the request to a websocket subscribed to sessionID.
// On failure the upgrader has already written an HTTP error response.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade failed: %w", err)
	}

	client := newClient(sessionID, conn, h)
	if !h.subscribe(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// HandleEvent implements events.EventHandler. Clients whose buffer is full
// are disconnected. A session_ended event closes the session's clients after
// it has been queued.
func (h *Hub) HandleEvent(ctx context.Context, event *events.GameEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.sessions[event.SessionID] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow websocket client", "session_id", event.SessionID.String())
		h.unsubscribe(c)
	}

	if event.Type == events.TypeSessionEnded {
		h.closeSession(event.SessionID)
	}
	return nil
}

// Subscribers returns the number of clients subscribed to a session.
func (h *Hub) Subscribers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Close disconnects every client and rejects new subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, clients := range h.sessions {
		for c := range clients {
			c.closeSend()
		}
		delete(h.sessions, id)
	}
}

func (h *Hub) subscribe(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	clients, ok := h.sessions[c.SessionID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.sessions[c.SessionID] = clients
	}
	clients[c] = struct{}{}
	h.logger.Debug("websocket client subscribed",
		"session_id", c.SessionID.String(),
		"subscribers", len(clients))
	return true
}

func (h *Hub) unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[c.SessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	c.closeSend()
	if len(clients) == 0 {
		delete(h.sessions, c.SessionID)
	}
}

func (h *Hub) closeSession(sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.sessions[sessionID] {
		c.closeSend()
	}
	delete(h.sessions, sessionID)
}
