package clients

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/hamza-bely/4hybd/internal/models"
)

// MessageFetcher is the collaborator surface the conversation layer
// consumes.
type MessageFetcher interface {
	AllMessagesForUser(ctx context.Context, userID int64) ([]models.Message, error)
	Send(ctx context.Context, req SendMessageRequest) (models.Message, error)
}

// SendMessageRequest is the upstream send payload. Type is inferred
// when empty: IMAGE if a media URL is present, TEXT otherwise.
type SendMessageRequest struct {
	SenderID    int64              `json:"senderId"`
	ReceiverIDs []int64            `json:"receiverIds"`
	Content     string             `json:"content"`
	MediaURL    string             `json:"mediaUrl,omitempty"`
	Type        models.MessageType `json:"type"`
}

// MessageClient talks to the message service.
type MessageClient struct {
	api httpAPI
}

// NewMessageClient builds a MessageClient for the given base URL.
func NewMessageClient(baseURL string, httpClient *http.Client) *MessageClient {
	return &MessageClient{api: newHTTPAPI("message", baseURL, httpClient)}
}

// MessagesSentByUser returns messages the user sent.
func (c *MessageClient) MessagesSentByUser(ctx context.Context, userID int64) ([]models.Message, error) {
	var msgs []models.Message
	if err := c.api.getJSON(ctx, fmt.Sprintf("/messages/sent/%d", userID), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MessagesReceivedByUser returns messages addressed to the user.
func (c *MessageClient) MessagesReceivedByUser(ctx context.Context, userID int64) ([]models.Message, error) {
	var msgs []models.Message
	if err := c.api.getJSON(ctx, fmt.Sprintf("/messages/received/%d", userID), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// AllMessagesForUser merges sent and received messages, newest first.
// Either fetch failing fails the whole call; there is no partial
// result.
func (c *MessageClient) AllMessagesForUser(ctx context.Context, userID int64) ([]models.Message, error) {
	sent, err := c.MessagesSentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := c.MessagesReceivedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	all := make([]models.Message, 0, len(sent)+len(received))
	all = append(all, sent...)
	all = append(all, received...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all, nil
}

// Send posts a new message through the message service.
func (c *MessageClient) Send(ctx context.Context, req SendMessageRequest) (models.Message, error) {
	if req.Type == "" {
		req.Type = models.MessageTypeText
		if req.MediaURL != "" {
			req.Type = models.MessageTypeImage
		}
	}
	var msg models.Message
	if err := c.api.postJSON(ctx, "/messages/send", req, &msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

var _ MessageFetcher = (*MessageClient)(nil)
