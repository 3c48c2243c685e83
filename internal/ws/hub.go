package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hamza-bely/4hybd/internal/observability"
	"github.com/hamza-bely/4hybd/internal/playback"
)

// EventPublisher is the broker surface the hub emits lifecycle events to.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

const playbackRoutingKey = "ws_events.playback"

type client struct {
	info    ConnInfo
	session *playback.Session
}

// Hub tracks active playback websocket connections and the playback
// session bound to each one.
type Hub struct {
	clients   map[*websocket.Conn]client
	publisher EventPublisher
	log       *zap.SugaredLogger
	mu        sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub(publisher EventPublisher, log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]client),
		publisher: publisher,
		log:       log,
	}
}

// AddClient registers a websocket connection and its playback session.
func (h *Hub) AddClient(conn *websocket.Conn, info ConnInfo, session *playback.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = client{info: info, session: session}
}

// RemoveClient removes a websocket connection.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// ActiveClients reports the number of registered connections.
func (h *Hub) ActiveClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll closes every playback session and websocket connection.
// Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*websocket.Conn]client)
	h.mu.Unlock()

	for conn, cl := range clients {
		if cl.session != nil {
			cl.session.Close()
		}
		if conn != nil {
			_ = conn.Close()
		}
	}
}

// PublishLifecycle emits a connect/disconnect/error event for a
// connection to the broker.
func (h *Hub) PublishLifecycle(ctx context.Context, eventName string, info ConnInfo, reason string) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       eventName,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	if err := h.publisher.Publish(ctx, playbackRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: eventName,
		Payload:   payload,
	}); err != nil {
		h.log.Warnw("ws event publish failed", "event", eventName, "conn_id", info.ConnID, "error", err)
	}
	observability.IncPlaybackEvent(eventName)
}
