package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/lattice/pkg/layout"
	"github.com/vango-dev/lattice/pkg/reactive"
)

// EventType identifies the payload of an Event.
type EventType string

const (
	EventPropagation EventType = "propagation"
	EventLayout      EventType = "layout"
)

// Event is sent to every connected client as a JSON text message.
type Event struct {
	Type        EventType         `json:"type"`
	Time        time.Time         `json:"time"`
	Propagation *PropagationEvent `json:"propagation,omitempty"`
	Layout      *LayoutEvent      `json:"layout,omitempty"`
}

// PropagationEvent is the wire form of reactive.PropagationStats.
type PropagationEvent struct {
	Root       uint64  `json:"root"`
	Label      string  `json:"label,omitempty"`
	Nodes      int     `json:"nodes"`
	Recomputed int     `json:"recomputed"`
	Notified   int     `json:"notified"`
	DurationMS float64 `json:"durationMs"`
	Panicked   bool    `json:"panicked,omitempty"`
}

// LayoutEvent is the wire form of layout.PassStats.
type LayoutEvent struct {
	Nodes      int     `json:"nodes"`
	Measures   int     `json:"measures"`
	CacheHits  int     `json:"cacheHits"`
	Fallbacks  int     `json:"fallbacks"`
	DurationMS float64 `json:"durationMs"`
}

func newLayoutEvent(stats layout.PassStats) *LayoutEvent {
	return &LayoutEvent{
		Nodes:      stats.Nodes,
		Measures:   stats.Measures,
		CacheHits:  stats.CacheHits,
		Fallbacks:  stats.Fallbacks,
		DurationMS: milliseconds(stats.Duration),
	}
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Hub streams propagation and layout events to WebSocket clients. It
// implements reactive.Observer and layout.Observer.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

var (
	_ reactive.Observer = (*Hub)(nil)
	_ layout.Observer   = (*Hub)(nil)
)

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // The inspector is a local development tool
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away. Client messages are read and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Debug("inspector client connected", "remote", req.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
}

// ObservePropagation implements reactive.Observer.
func (h *Hub) ObservePropagation(stats reactive.PropagationStats) {
	h.Broadcast(Event{
		Type: EventPropagation,
		Time: stats.Start,
		Propagation: &PropagationEvent{
			Root:       stats.Root,
			Label:      stats.Label,
			Nodes:      stats.Nodes,
			Recomputed: stats.Recomputed,
			Notified:   stats.Notified,
			DurationMS: milliseconds(stats.Duration),
			Panicked:   stats.Panicked,
		},
	})
}

// ObservePass implements layout.Observer.
func (h *Hub) ObservePass(_ context.Context, stats layout.PassStats) {
	h.Broadcast(Event{
		Type:   EventLayout,
		Time:   stats.Start,
		Layout: newLayoutEvent(stats),
	})
}

// Broadcast sends ev to all clients. Clients that fail to receive it are
// dropped.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode inspector event", "error", err)
		return
	}

	// gorilla/websocket allows one concurrent writer per connection.
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(client)
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
