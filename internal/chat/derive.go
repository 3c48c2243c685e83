// Package chat derives stable conversation views from the flat,
// append-only message log. All functions are pure and reentrant: they
// never mutate their inputs and hold no state between calls.
package chat

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hamza-bely/4hybd/internal/models"
)

// ErrInvalidKey is returned when a conversation key cannot be parsed.
var ErrInvalidKey = errors.New("invalid conversation key")

// Key builds the canonical identifier for a participant set: the
// unique ids sorted ascending and joined with "-". The same set always
// yields the same key regardless of who sent which message.
func Key(participantIDs []int64) string {
	ids := dedupeSorted(participantIDs)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "-")
}

// ParseKey recovers the ascending participant ids from a canonical key.
func ParseKey(key string) ([]int64, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	parts := strings.Split(key, "-")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeriveConversations folds the message log into one Conversation per
// unique participant set, each holding the message with the greatest
// timestamp. The result is ordered by last-message timestamp
// descending; conversations without a message sort as epoch and land
// last. When two messages in the same conversation share a timestamp
// the selection follows traversal order and is not a guarantee.
func DeriveConversations(messages []models.Message, viewerID int64) []models.Conversation {
	byKey := make(map[string]*models.Conversation)
	order := make([]string, 0)

	for i := range messages {
		msg := messages[i]
		others := otherParticipants(msg, viewerID)
		participants := dedupeSorted(append(others, viewerID))
		key := Key(participants)

		conv, ok := byKey[key]
		if !ok {
			byKey[key] = &models.Conversation{
				ID:             key,
				ParticipantIDs: participants,
				LastMessage:    &messages[i],
			}
			order = append(order, key)
			continue
		}
		if msg.Timestamp.After(conv.LastMessage.Timestamp) {
			conv.LastMessage = &messages[i]
		}
	}

	result := make([]models.Conversation, 0, len(order))
	for _, key := range order {
		result = append(result, *byKey[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return lastTimestamp(result[i]).After(lastTimestamp(result[j]))
	})
	return result
}

// MessagesForConversation returns the messages belonging to the
// conversation identified by the viewer plus the given other
// participants, in chronological order. An empty result is valid data,
// not an error.
func MessagesForConversation(messages []models.Message, viewerID int64, otherParticipantIDs []int64) []models.Message {
	required := dedupeSorted(append(append([]int64{}, otherParticipantIDs...), viewerID))

	result := make([]models.Message, 0)
	for _, msg := range messages {
		if containsAll(msg.Participants(), required) {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}

// otherParticipants is the set the viewer is talking to: the receivers
// when the viewer sent the message, otherwise just the sender.
func otherParticipants(msg models.Message, viewerID int64) []int64 {
	if msg.SenderID == viewerID {
		return append([]int64{}, msg.ReceiverIDs...)
	}
	return []int64{msg.SenderID}
}

func dedupeSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func containsAll(haystack, needles []int64) bool {
	set := make(map[int64]struct{}, len(haystack))
	for _, id := range haystack {
		set[id] = struct{}{}
	}
	for _, id := range needles {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

func lastTimestamp(conv models.Conversation) time.Time {
	if conv.LastMessage == nil {
		return time.Time{}
	}
	return conv.LastMessage.Timestamp
}
