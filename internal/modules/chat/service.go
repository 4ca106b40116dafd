package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"shugly/internal/domain"
)

const maxTextLength = 2000

type Service struct {
	messages    MessageRepository
	users       UserReader
	notifier    Notifier
	broadcaster Broadcaster
	presence    Presence
}

func NewService(messages MessageRepository, users UserReader, notifier Notifier, broadcaster Broadcaster, presence Presence) *Service {
	return &Service{
		messages:    messages,
		users:       users,
		notifier:    notifier,
		broadcaster: broadcaster,
		presence:    presence,
	}
}

// Send stores a message and pushes it to both participants. Receivers with no open
// connection on this replica also get a push notification.
func (s *Service) Send(ctx context.Context, senderID string, req SendMessageRequest) (*domain.Message, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxTextLength {
		return nil, ErrMessageTooLong
	}
	if req.ReceiverID == senderID {
		return nil, ErrSelfMessage
	}

	if _, err := s.users.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, fmt.Errorf("get receiver: %w", err)
	}

	msg := &domain.Message{
		ConversationID: domain.ConversationID(senderID, req.ReceiverID),
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		Text:           text,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.broadcaster.Broadcast(ctx, []string{senderID, req.ReceiverID}, Event{
		Type:           EventMessage,
		ConversationID: msg.ConversationID,
		Message:        msg,
	})

	if !s.presence.IsOnline(req.ReceiverID) {
		senderName := ""
		if u, err := s.users.GetByID(ctx, senderID); err == nil {
			senderName = u.Name
		}
		s.notifier.NewMessage(ctx, msg, senderName)
	}
	return msg, nil
}

// Messages returns the conversation oldest first. Only its two participants may read it.
func (s *Service) Messages(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	if !isParticipant(userID, conversationID) {
		return nil, ErrNotParticipant
	}
	list, err := s.messages.ListConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return list, nil
}

// Conversations groups the user's messages by conversation, most recent first.
func (s *Service) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user messages: %w", err)
	}

	byID := make(map[string]*domain.Conversation)
	for i := range msgs {
		m := &msgs[i]
		conv, ok := byID[m.ConversationID]
		if !ok {
			a, b, valid := domain.ConversationParticipants(m.ConversationID)
			if !valid {
				continue
			}
			conv = &domain.Conversation{ID: m.ConversationID, Participants: [2]string{a, b}}
			conv.OtherUserID = conv.Other(userID)
			byID[m.ConversationID] = conv
		}
		if conv.LastMessage == nil || m.Timestamp.After(conv.LastMessageAt) {
			conv.LastMessage = m
			conv.LastMessageAt = m.Timestamp
		}
		if m.ReceiverID == userID && !m.Read {
			conv.UnreadCount++
		}
	}

	out := make([]domain.Conversation, 0, len(byID))
	others := make([]string, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
		others = append(others, c.OtherUserID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })

	if len(others) > 0 {
		users, err := s.users.ListByIDs(ctx, others)
		if err != nil {
			return nil, fmt.Errorf("load conversation users: %w", err)
		}
		names := make(map[string]string, len(users))
		for _, u := range users {
			names[u.ID] = u.Name
		}
		for i := range out {
			out[i].OtherUserName = names[out[i].OtherUserID]
		}
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead flags the user's incoming messages in the conversation and tells the other side.
func (s *Service) MarkRead(ctx context.Context, userID, conversationID string) (int64, error) {
	if !isParticipant(userID, conversationID) {
		return 0, ErrNotParticipant
	}
	n, err := s.messages.MarkConversationRead(ctx, conversationID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	if n > 0 {
		s.broadcaster.Broadcast(ctx, []string{otherParticipant(userID, conversationID)}, Event{
			Type:           EventRead,
			ConversationID: conversationID,
			UserID:         userID,
		})
	}
	return n, nil
}

// HandleFrame processes one websocket frame from userID. Unknown or malformed frames are ignored.
func (s *Service) HandleFrame(ctx context.Context, userID string, data []byte) {
	var f clientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return
	}

	switch f.Type {
	case EventTyping:
		if !isParticipant(userID, f.ConversationID) {
			return
		}
		s.broadcaster.Broadcast(ctx, []string{otherParticipant(userID, f.ConversationID)}, Event{
			Type:           EventTyping,
			ConversationID: f.ConversationID,
			UserID:         userID,
		})
	case EventRead:
		if _, err := s.MarkRead(ctx, userID, f.ConversationID); err != nil && !errors.Is(err, ErrNotParticipant) {
			slog.WarnContext(ctx, "websocket mark read failed", "user_id", userID, "error", err)
		}
	}
}

func isParticipant(userID, conversationID string) bool {
	a, b, ok := domain.ConversationParticipants(conversationID)
	return ok && (a == userID || b == userID)
}

func otherParticipant(userID, conversationID string) string {
	a, b, _ := domain.ConversationParticipants(conversationID)
	if a == userID {
		return b
	}
	return a
}
