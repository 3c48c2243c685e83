package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hamza-bely/4hybd/internal/geo"
	"github.com/hamza-bely/4hybd/internal/mocks"
	"github.com/hamza-bely/4hybd/internal/models"
)

func setupStoryRouter(handler *StoryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stories/nearby", handler.NearbyStories)
	r.GET("/stories/:story_id", handler.StoryByID)
	return r
}

func TestNearbyStoriesFiltersByDistanceAndExpiry(t *testing.T) {
	storyClient := new(mocks.StoryFetcherMock)
	handler := NewStoryHandler(storyClient, nil, 10, time.Second)
	router := setupStoryRouter(handler)

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)
	storyClient.On("AllStories", mock.Anything).Return([]models.Story{
		{ID: 1, Latitude: 48.8566, Longitude: 2.3522, ExpiresAt: future},
		{ID: 2, Latitude: 45.7640, Longitude: 4.8357, ExpiresAt: future},
		{ID: 3, Latitude: 48.8566, Longitude: 2.3522, ExpiresAt: past},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/stories/nearby?lat=48.8566&lng=2.3522", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Stories []models.Story `json:"stories"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Stories, 1)
	assert.Equal(t, int64(1), resp.Stories[0].ID)

	storyClient.AssertExpectations(t)
}

func TestNearbyStoriesPositionProviderFallback(t *testing.T) {
	storyClient := new(mocks.StoryFetcherMock)
	positions := new(mocks.PositionProviderMock)
	handler := NewStoryHandler(storyClient, positions, 10, time.Second)
	router := setupStoryRouter(handler)

	positions.On("Current", mock.Anything).Return(geo.Point{Lat: 48.8566, Lng: 2.3522}, nil).Once()
	storyClient.On("AllStories", mock.Anything).Return([]models.Story{
		{ID: 1, Latitude: 48.8566, Longitude: 2.3522, ExpiresAt: time.Now().Add(time.Hour)},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/stories/nearby", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	positions.AssertExpectations(t)
	storyClient.AssertExpectations(t)
}

func TestNearbyStoriesPositionUnavailable(t *testing.T) {
	positions := new(mocks.PositionProviderMock)
	handler := NewStoryHandler(new(mocks.StoryFetcherMock), positions, 10, time.Second)
	router := setupStoryRouter(handler)

	positions.On("Current", mock.Anything).Return(geo.Point{}, assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/stories/nearby", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	positions.AssertExpectations(t)
}

func TestNearbyStoriesInvalidMaxKm(t *testing.T) {
	handler := NewStoryHandler(new(mocks.StoryFetcherMock), nil, 10, time.Second)
	router := setupStoryRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/stories/nearby?lat=1&lng=1&max_km=-5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoryByIDSuccess(t *testing.T) {
	storyClient := new(mocks.StoryFetcherMock)
	handler := NewStoryHandler(storyClient, nil, 10, time.Second)
	router := setupStoryRouter(handler)

	storyClient.On("StoryByID", mock.Anything, int64(7)).Return(models.Story{ID: 7, MediaURL: "http://cdn/7.jpg"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/stories/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	storyClient.AssertExpectations(t)
}

func TestStoryByIDInvalidID(t *testing.T) {
	handler := NewStoryHandler(new(mocks.StoryFetcherMock), nil, 10, time.Second)
	router := setupStoryRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/stories/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
