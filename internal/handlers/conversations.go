package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hamza-bely/4hybd/internal/chat"
	"github.com/hamza-bely/4hybd/internal/clients"
	"github.com/hamza-bely/4hybd/internal/models"
	"github.com/hamza-bely/4hybd/internal/observability"
	"github.com/hamza-bely/4hybd/internal/telemetry"
)

// ConversationHandler exposes the conversation views derived from the
// message service.
type ConversationHandler struct {
	messages clients.MessageFetcher
	users    clients.UserResolver
	emitter  *telemetry.AuditEmitter
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(messages clients.MessageFetcher, users clients.UserResolver, emitter *telemetry.AuditEmitter) *ConversationHandler {
	return &ConversationHandler{
		messages: messages,
		users:    users,
		emitter:  emitter,
	}
}

type participantInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type conversationResponse struct {
	ID             string            `json:"id"`
	ParticipantIDs []int64           `json:"participant_ids"`
	Participants   []participantInfo `json:"participants"`
	LastMessage    *models.Message   `json:"last_message,omitempty"`
	UnreadCount    int               `json:"unread_count"`
}

// ListConversations derives the conversation list for the
// authenticated user from their full message history.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID := c.GetInt64("userID")

	msgs, err := h.messages.AllMessagesForUser(c.Request.Context(), userID)
	if err != nil {
		observability.IncUpstream("message", "error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load messages"})
		return
	}
	observability.IncUpstream("message", "ok")

	conversations := chat.DeriveConversations(msgs, userID)
	usernames := h.resolveUsernames(c, conversations, userID)

	responses := make([]conversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		participants := make([]participantInfo, 0, len(conv.ParticipantIDs))
		for _, id := range conv.ParticipantIDs {
			if id == userID {
				continue
			}
			participants = append(participants, participantInfo{ID: id, Username: usernames[id]})
		}
		responses = append(responses, conversationResponse{
			ID:             conv.ID,
			ParticipantIDs: conv.ParticipantIDs,
			Participants:   participants,
			LastMessage:    conv.LastMessage,
			UnreadCount:    conv.UnreadCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": responses})
}

// ConversationMessages returns the thread between the authenticated
// user and the participants named in the "with" query parameter,
// oldest first.
func (h *ConversationHandler) ConversationMessages(c *gin.Context) {
	userID := c.GetInt64("userID")

	others, err := parseIDList(c.Query("with"))
	if err != nil || len(others) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant list"})
		return
	}

	msgs, err := h.messages.AllMessagesForUser(c.Request.Context(), userID)
	if err != nil {
		observability.IncUpstream("message", "error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load messages"})
		return
	}
	observability.IncUpstream("message", "ok")

	thread := chat.MessagesForConversation(msgs, userID, others)
	c.JSON(http.StatusOK, gin.H{"messages": thread})
}

// SendMessage relays a new message to the message service on behalf of
// the authenticated user.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID := c.GetInt64("userID")

	var req struct {
		ReceiverIDs []int64 `json:"receiver_ids" binding:"required,min=1"`
		Content     string  `json:"content"`
		MediaURL    string  `json:"media_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content == "" && req.MediaURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message needs content or media"})
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), clients.SendMessageRequest{
		SenderID:    userID,
		ReceiverIDs: req.ReceiverIDs,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		observability.IncUpstream("message", "error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send message"})
		return
	}
	observability.IncUpstream("message", "ok")

	h.emitter.Emit(c.Request.Context(), "INFO", "message sent", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusCreated, msg)
}

// resolveUsernames looks up display names for every other participant.
// A failed lookup degrades to a placeholder and never fails the call.
func (h *ConversationHandler) resolveUsernames(c *gin.Context, conversations []models.Conversation, viewerID int64) map[int64]string {
	usernames := map[int64]string{}
	for _, conv := range conversations {
		for _, id := range conv.ParticipantIDs {
			if id == viewerID {
				continue
			}
			if _, ok := usernames[id]; ok {
				continue
			}
			user, err := h.users.UserByID(c.Request.Context(), id)
			if err != nil {
				observability.IncUpstream("user", "error")
				usernames[id] = fmt.Sprintf("user-%d", id)
				continue
			}
			observability.IncUpstream("user", "ok")
			usernames[id] = user.Username
		}
	}
	return usernames
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
