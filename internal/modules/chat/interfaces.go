package chat

import (
	"context"

	"shugly/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Message, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type Notifier interface {
	NewMessage(ctx context.Context, m *domain.Message, senderName string)
}

type Presence interface {
	IsOnline(userID string) bool
}
