package ws

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"github.com/hamza-bely/4hybd/internal/clients"
	"github.com/hamza-bely/4hybd/internal/geo"
	"github.com/hamza-bely/4hybd/internal/models"
	"github.com/hamza-bely/4hybd/internal/observability"
	"github.com/hamza-bely/4hybd/internal/playback"
	"github.com/hamza-bely/4hybd/internal/position"
	"github.com/hamza-bely/4hybd/internal/repositories"
	"github.com/hamza-bely/4hybd/internal/stories"
)

// PlaybackWebSocketHandler streams story playback state over a
// websocket. The server drives the timer; the client only sends
// actions (next, previous, toggle_pause, close).
type PlaybackWebSocketHandler struct {
	hub           *Hub
	storyClient   clients.StoryFetcher
	sessions      repositories.SessionRepository
	positions     position.Provider
	maxDistanceKm float64
	posTimeout    time.Duration
	newTicker     playback.TickerFactory
}

// NewPlaybackWebSocketHandler constructs a PlaybackWebSocketHandler.
func NewPlaybackWebSocketHandler(hub *Hub, storyClient clients.StoryFetcher, sessions repositories.SessionRepository, positions position.Provider, maxDistanceKm float64, posTimeout time.Duration) *PlaybackWebSocketHandler {
	return &PlaybackWebSocketHandler{
		hub:           hub,
		storyClient:   storyClient,
		sessions:      sessions,
		positions:     positions,
		maxDistanceKm: maxDistanceKm,
		posTimeout:    posTimeout,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type playbackFrame struct {
	Type     string        `json:"type"`
	State    string        `json:"state"`
	Index    int           `json:"index"`
	Progress float64       `json:"progress"`
	Story    *models.Story `json:"story,omitempty"`
}

type playbackAction struct {
	Action string `json:"action"`
}

// Handle authenticates the client, resolves its position, filters the
// visible stories and runs a playback session bound to the connection.
func (h *PlaybackWebSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("4hybd/ws").Start(c.Request.Context(), "ws.playback")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	sess, err := h.sessions.SessionByToken(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	observer, err := h.resolveObserver(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "position unavailable"})
		return
	}

	maxKm := h.maxDistanceKm
	if raw := c.Query("max_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_km"})
			return
		}
		maxKm = parsed
	}

	initialIndex := 0
	if raw := c.Query("index"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
			return
		}
		initialIndex = parsed
	}

	all, err := h.storyClient.AllStories(ctx)
	if err != nil {
		observability.IncUpstream("story", "error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "story service unavailable"})
		return
	}
	observability.IncUpstream("story", "ok")

	visible := stories.Visible(all, observer, maxKm, time.Now())
	if len(visible) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no stories nearby"})
		return
	}
	if initialIndex >= len(visible) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index out of range"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      sess.UserID,
		DeviceID:    deviceIDFrom(c.Request),
		IP:          clientIPFrom(c.Request),
		RequestID:   requestIDFrom(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}

	var writeMu sync.Mutex
	writeFrame := func(frame playbackFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(frame)
	}

	opts := []playback.Option{
		playback.WithOnChange(func(snap playback.Snapshot) {
			frame := playbackFrame{
				Type:     "snapshot",
				State:    snap.State.String(),
				Index:    snap.Index,
				Progress: snap.Progress,
			}
			if snap.State != playback.StateClosed && snap.Index < len(visible) {
				story := visible[snap.Index]
				frame.Story = &story
			}
			if err := writeFrame(frame); err != nil {
				h.hub.PublishLifecycle(ctx, "ws_error", info, err.Error())
			}
		}),
		playback.WithOnClose(func() {
			writeMu.Lock()
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "playback finished"),
				time.Now().Add(time.Second))
			writeMu.Unlock()
		}),
	}
	if h.newTicker != nil {
		opts = append(opts, playback.WithTicker(h.newTicker))
	}
	session := playback.NewSession(opts...)

	if err := session.Open(visible, initialIndex); err != nil {
		_ = conn.Close()
		return
	}

	h.hub.AddClient(conn, info, session)
	observability.IncPlaybackActive()
	h.hub.PublishLifecycle(ctx, "ws_connect", info, "")

	go func() {
		var closeReason string
		defer func() {
			session.Close()
			h.hub.RemoveClient(conn)
			observability.DecPlaybackActive()
			h.hub.PublishLifecycle(ctx, "ws_disconnect", info, closeReason)
			conn.Close()
		}()
		for {
			var action playbackAction
			if err := conn.ReadJSON(&action); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.hub.PublishLifecycle(ctx, "ws_error", info, closeReason)
				}
				return
			}
			switch action.Action {
			case "next":
				session.Next()
			case "previous":
				session.Previous()
			case "toggle_pause":
				session.TogglePause()
			case "close":
				closeReason = "client close"
				return
			}
		}
	}()
}

// resolveObserver takes the viewer position from lat/lng query params
// when both are present, otherwise from the position provider. A
// provider failure is a failure, not a fallback.
func (h *PlaybackWebSocketHandler) resolveObserver(c *gin.Context) (geo.Point, error) {
	rawLat, rawLng := c.Query("lat"), c.Query("lng")
	if rawLat != "" && rawLng != "" {
		lat, errLat := strconv.ParseFloat(rawLat, 64)
		lng, errLng := strconv.ParseFloat(rawLng, 64)
		if errLat == nil && errLng == nil {
			return geo.Point{Lat: lat, Lng: lng}, nil
		}
	}
	return position.Resolve(c.Request.Context(), h.positions, h.posTimeout)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
