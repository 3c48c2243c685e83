package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hamza-bely/4hybd/internal/mocks"
	"github.com/hamza-bely/4hybd/internal/repositories"
)

func setupPreferenceRouter(handler *PreferenceHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/preferences", handler.ListPreferences)
	r.GET("/preferences/:key", handler.GetPreference)
	r.PUT("/preferences/:key", handler.PutPreference)
	r.DELETE("/preferences/:key", handler.DeletePreference)
	return r
}

func TestPutAndGetPreference(t *testing.T) {
	prefs := new(mocks.PreferenceRepositoryMock)
	handler := NewPreferenceHandler(prefs)
	router := setupPreferenceRouter(handler)

	prefs.On("SetPreference", mock.Anything, "theme", "dark").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/preferences/theme", bytes.NewBufferString(`{"value":"dark"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	prefs.AssertExpectations(t)
}

func TestGetPreferenceNotFound(t *testing.T) {
	prefs := new(mocks.PreferenceRepositoryMock)
	handler := NewPreferenceHandler(prefs)
	router := setupPreferenceRouter(handler)

	prefs.On("Preference", mock.Anything, "missing").Return("", repositories.ErrPreferenceNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/preferences/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	prefs.AssertExpectations(t)
}

func TestDeletePreference(t *testing.T) {
	prefs := new(mocks.PreferenceRepositoryMock)
	handler := NewPreferenceHandler(prefs)
	router := setupPreferenceRouter(handler)

	prefs.On("DeletePreference", mock.Anything, "theme").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/preferences/theme", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	prefs.AssertExpectations(t)
}
