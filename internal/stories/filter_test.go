package stories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamza-bely/4hybd/internal/geo"
	"github.com/hamza-bely/4hybd/internal/models"
)

var base = time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC)

func story(id int64, lat, lng float64, expiresAt time.Time) models.Story {
	return models.Story{
		ID:        id,
		UserID:    "u1",
		MediaURL:  "https://cdn.example.com/story.png",
		MediaType: "image",
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: base,
		ExpiresAt: expiresAt,
	}
}

func TestVisibleDistanceAndExpiry(t *testing.T) {
	// Roughly 10 km east of the origin along the equator.
	east := story(1, 0, 0.0899, base.Add(time.Hour))
	observer := geo.Point{Lat: 0, Lng: 0}
	now := base.Add(30 * time.Minute)

	got := Visible([]models.Story{east}, observer, 10, now)
	require.Len(t, got, 1)

	got = Visible([]models.Story{east}, observer, 5, now)
	assert.Empty(t, got)

	got = Visible([]models.Story{east}, observer, 10, base.Add(2*time.Hour))
	assert.Empty(t, got, "expired stories are invisible regardless of distance")
}

func TestVisibleExpiryIsStrict(t *testing.T) {
	s := story(1, 0, 0, base.Add(time.Hour))
	observer := geo.Point{Lat: 0, Lng: 0}

	assert.Len(t, Visible([]models.Story{s}, observer, 10, s.ExpiresAt.Add(-time.Nanosecond)), 1)
	assert.Empty(t, Visible([]models.Story{s}, observer, 10, s.ExpiresAt))
}

func TestVisibleDefaultThreshold(t *testing.T) {
	near := story(1, 0, 0.05, base.Add(time.Hour)) // ~5.6 km
	far := story(2, 0, 0.2, base.Add(time.Hour))   // ~22 km
	observer := geo.Point{Lat: 0, Lng: 0}

	got := Visible([]models.Story{near, far}, observer, 0, base)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestVisiblePreservesInputOrder(t *testing.T) {
	a := story(1, 0, 0.01, base.Add(time.Hour))
	b := story(2, 0, 0.03, base.Add(time.Hour))
	c := story(3, 0, 0.02, base.Add(time.Hour))

	got := Visible([]models.Story{a, b, c}, geo.Point{}, 10, base)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestVisibleEmptyInput(t *testing.T) {
	assert.Empty(t, Visible(nil, geo.Point{}, 10, base))
}
