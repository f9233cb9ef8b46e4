package services

import (
	"encoding/json"
	"sync"

	"github.com/bellapacxx/retro-backend/utils/logger"
)

// Event is a board change pushed to connected clients. Clients refetch the
// session details on receipt; payloads carry only the minimum to identify
// what changed.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub fans board events out to the websocket clients of each session.
// Delivery is advisory: a slow client is dropped rather than blocking a
// mutation.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*BoardClient]bool
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*BoardClient]bool)}
}

func (h *Hub) addClient(c *BoardClient) {
	h.mu.Lock()
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		clients = make(map[*BoardClient]bool)
		h.sessions[c.sessionID] = clients
	}
	clients[c] = true
	total := len(clients)
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()

	logger.Infof("[hub] client joined session %s (connected=%d)", c.sessionID, total)
}

func (h *Hub) removeClient(c *BoardClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.sessions[c.sessionID]; ok {
		if clients[c] {
			delete(clients, c)
			c.Close()
		}
		if len(clients) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
}

// Notify broadcasts an event to every client watching the session. Safe to
// call on a nil hub, which the service tests rely on.
func (h *Hub) Notify(sessionID, eventType string, payload any) {
	if h == nil {
		return
	}

	msg, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		logger.Errorf("[hub] marshal event %s: %v", eventType, err)
		return
	}

	h.mu.RLock()
	clients := make([]*BoardClient, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[sessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.deliver(c, msg)
	}
}

// deliver pushes one event to one client. The client may disconnect between
// the snapshot in Notify and the send here, closing its channel; the recover
// turns that into a dropped delivery instead of a process crash.
func (h *Hub) deliver(c *BoardClient, msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("[hub] client %s gone mid-broadcast: %v", c.userID, r)
		}
	}()

	select {
	case c.send <- msg:
	default:
		// Client is not draining its queue; disconnect it.
		h.removeClient(c)
	}
}
