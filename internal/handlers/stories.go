package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamza-bely/4hybd/internal/clients"
	"github.com/hamza-bely/4hybd/internal/geo"
	"github.com/hamza-bely/4hybd/internal/observability"
	"github.com/hamza-bely/4hybd/internal/position"
	"github.com/hamza-bely/4hybd/internal/stories"
)

// StoryHandler exposes the proximity-filtered story views.
type StoryHandler struct {
	stories       clients.StoryFetcher
	positions     position.Provider
	maxDistanceKm float64
	posTimeout    time.Duration
}

// NewStoryHandler builds a StoryHandler.
func NewStoryHandler(storyClient clients.StoryFetcher, positions position.Provider, maxDistanceKm float64, posTimeout time.Duration) *StoryHandler {
	return &StoryHandler{
		stories:       storyClient,
		positions:     positions,
		maxDistanceKm: maxDistanceKm,
		posTimeout:    posTimeout,
	}
}

// NearbyStories returns the unexpired stories within range of the
// observer. The observer position comes from lat/lng query parameters
// when both are given, otherwise from the device position provider;
// when neither source yields a position the call fails rather than
// falling back to an unfiltered list.
func (h *StoryHandler) NearbyStories(c *gin.Context) {
	observer, ok := h.observerPosition(c)
	if !ok {
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

	all, err := h.stories.AllStories(c.Request.Context())
	if err != nil {
		observability.IncUpstream("story", "error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load stories"})
		return
	}
	observability.IncUpstream("story", "ok")

	visible := stories.Visible(all, observer, maxKm, time.Now())
	c.JSON(http.StatusOK, gin.H{"stories": visible})
}

// StoryByID returns a single story by its identifier.
func (h *StoryHandler) StoryByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("story_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story id"})
		return
	}

	story, err := h.stories.StoryByID(c.Request.Context(), id)
	if err != nil {
		observability.IncUpstream("story", "error")
		var upstream *clients.UpstreamError
		if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "story not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load story"})
		return
	}
	observability.IncUpstream("story", "ok")

	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) observerPosition(c *gin.Context) (geo.Point, bool) {
	rawLat, rawLng := c.Query("lat"), c.Query("lng")
	if rawLat != "" || rawLng != "" {
		lat, errLat := strconv.ParseFloat(rawLat, 64)
		lng, errLng := strconv.ParseFloat(rawLng, 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
			return geo.Point{}, false
		}
		return geo.Point{Lat: lat, Lng: lng}, true
	}

	observer, err := position.Resolve(c.Request.Context(), h.positions, h.posTimeout)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "position unavailable"})
		return geo.Point{}, false
	}
	return observer, true
}
