package repository

import (
	"context"
	"time"

	"shugly/internal/domain"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

type messageModel struct {
	ID             string    `gorm:"column:id;primaryKey;size:36"`
	ConversationID string    `gorm:"column:conversation_id;index;size:80"`
	SenderID       string    `gorm:"column:sender_id;index;size:36"`
	ReceiverID     string    `gorm:"column:receiver_id;index;size:36"`
	Text           string    `gorm:"column:text;type:text"`
	Read           bool      `gorm:"column:is_read"`
	Timestamp      time.Time `gorm:"column:sent_at;index"`
}

func (messageModel) TableName() string { return "messages" }

func toDomainMessage(m messageModel) domain.Message {
	return domain.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Text:           m.Text,
		Read:           m.Read,
		Timestamp:      m.Timestamp,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	msg.ID = newID(msg.ID)
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	m := messageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Text:           msg.Text,
		Read:           msg.Read,
		Timestamp:      msg.Timestamp,
	}
	return mapError(r.db.WithContext(ctx).Create(&m).Error)
}

// ListConversation returns the conversation's messages oldest first.
func (r *MessageRepository) ListConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var rows []messageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainMessages(rows), nil
}

// ListForUser returns every message the user sent or received, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	var rows []messageModel
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("sent_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainMessages(rows), nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkConversationRead flags every message addressed to readerID in the conversation.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}

func toDomainMessages(rows []messageModel) []domain.Message {
	out := make([]domain.Message, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainMessage(m))
	}
	return out
}
