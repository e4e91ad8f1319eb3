// Package websocket pushes note change notifications to connected
// clients so they can refresh a list without polling. Messages carry
// only the entity, action, and record id; clients re-fetch through the
// normal API, which keeps the feed from ever leaking another user's
// note content.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is a change notification broadcast to all clients.
type Event struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

// NoteEvent builds a note change Event for the given action and id.
func NoteEvent(action, id string) Event {
	return Event{
		Type:   "note_" + action,
		Entity: "note",
		Action: action,
		ID:     id,
	}
}

// Hub tracks the active clients and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to every connected client. A client whose
// buffer is full misses the event rather than blocking the hub.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
