package models

import "time"

// MessageType enumerates the supported message payloads.
type MessageType string

const (
	MessageTypeText  MessageType = "TEXT"
	MessageTypeImage MessageType = "IMAGE"
)

// Message is an immutable point-to-point or group message event.
// A sender never appears in its own receiver list.
type Message struct {
	ID          int64       `json:"id"`
	SenderID    int64       `json:"senderId"`
	ReceiverIDs []int64     `json:"receiverIds"`
	Content     string      `json:"content"`
	MediaURL    string      `json:"mediaUrl,omitempty"`
	Type        MessageType `json:"type"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Participants returns the sender plus all receivers of the message.
func (m Message) Participants() []int64 {
	out := make([]int64, 0, len(m.ReceiverIDs)+1)
	out = append(out, m.SenderID)
	out = append(out, m.ReceiverIDs...)
	return out
}

// Conversation is a derived view over the flat message log. It is
// recomputed on every derivation pass and has no identity of its own
// beyond the stability of its key.
type Conversation struct {
	ID             string   `json:"id"`
	ParticipantIDs []int64  `json:"participant_ids"`
	LastMessage    *Message `json:"last_message,omitempty"`
	UnreadCount    int      `json:"unread_count"`
}
