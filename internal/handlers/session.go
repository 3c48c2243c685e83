package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamza-bely/4hybd/internal/clients"
	"github.com/hamza-bely/4hybd/internal/models"
	"github.com/hamza-bely/4hybd/internal/observability"
	"github.com/hamza-bely/4hybd/internal/repositories"
	"github.com/hamza-bely/4hybd/internal/telemetry"
)

// SessionHandler manages login state against the user service and the
// local session store.
type SessionHandler struct {
	auth     clients.Authenticator
	sessions repositories.SessionRepository
	emitter  *telemetry.AuditEmitter
}

// NewSessionHandler builds a SessionHandler.
func NewSessionHandler(auth clients.Authenticator, sessions repositories.SessionRepository, emitter *telemetry.AuditEmitter) *SessionHandler {
	return &SessionHandler{
		auth:     auth,
		sessions: sessions,
		emitter:  emitter,
	}
}

// Login authenticates against the user service and persists the
// returned token locally, replacing any previous session.
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	auth, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		observability.IncUpstream("user", "error")
		var upstream *clients.UpstreamError
		if errors.As(err, &upstream) && upstream.Status == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "login failed"})
		return
	}
	observability.IncUpstream("user", "ok")

	user := models.User{ID: auth.UserID, Username: auth.Name, Email: auth.Email}
	if err := h.sessions.PersistSession(c.Request.Context(), auth.Token, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist session"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "user logged in", requestIDFromContext(c), &auth.UserID)
	c.JSON(http.StatusOK, gin.H{"token": auth.Token, "user": user})
}

// Logout clears the persisted session.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.sessions.ClearSession(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear session"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "user logged out", requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}

// CurrentUser returns the user record of the active session.
func (h *SessionHandler) CurrentUser(c *gin.Context) {
	session, err := h.sessions.CurrentSession(c.Request.Context())
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
		return
	}

	c.JSON(http.StatusOK, session.User())
}
