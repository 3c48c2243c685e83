package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamza-bely/4hybd/internal/repositories"
)

// PreferenceHandler exposes the local client preference store.
type PreferenceHandler struct {
	prefs repositories.PreferenceRepository
}

// NewPreferenceHandler builds a PreferenceHandler.
func NewPreferenceHandler(prefs repositories.PreferenceRepository) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// ListPreferences returns every stored preference.
func (h *PreferenceHandler) ListPreferences(c *gin.Context) {
	prefs, err := h.prefs.Preferences(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// GetPreference returns one preference by key.
func (h *PreferenceHandler) GetPreference(c *gin.Context) {
	key := c.Param("key")
	value, err := h.prefs.Preference(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, repositories.ErrPreferenceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "preference not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// PutPreference stores or replaces a preference.
func (h *PreferenceHandler) PutPreference(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.prefs.SetPreference(c.Request.Context(), key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store preference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}

// DeletePreference removes a preference by key.
func (h *PreferenceHandler) DeletePreference(c *gin.Context) {
	if err := h.prefs.DeletePreference(c.Request.Context(), c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete preference"})
		return
	}
	c.Status(http.StatusNoContent)
}
