package domain

import (
	"sort"
	"strings"
	"time"
)

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Text           string    `json:"text"`
	Read           bool      `json:"read"`
	Timestamp      time.Time `json:"timestamp"`
}

// Conversation is derived from messages; it is never stored on its own.
type Conversation struct {
	ID            string    `json:"id"`
	Participants  [2]string `json:"participants"`
	OtherUserID   string    `json:"other_user_id"`
	OtherUserName string    `json:"other_user_name,omitempty"`
	LastMessage   *Message  `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}

// ConversationID sorts the two participant IDs so both sides derive the same key.
func ConversationID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + "_" + ids[1]
}

// ConversationParticipants splits an ID built by ConversationID.
func ConversationParticipants(id string) (string, string, bool) {
	a, b, ok := strings.Cut(id, "_")
	if !ok || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// Other returns the participant that is not userID.
func (c Conversation) Other(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}
