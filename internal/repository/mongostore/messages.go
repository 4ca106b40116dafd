package mongostore

import (
	"context"
	"time"

	"shugly/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageDoc struct {
	ID             string    `bson:"_id"`
	ConversationID string    `bson:"conversation_id"`
	SenderID       string    `bson:"sender_id"`
	ReceiverID     string    `bson:"receiver_id"`
	Text           string    `bson:"text"`
	Read           bool      `bson:"read"`
	Timestamp      time.Time `bson:"timestamp"`
}

func (d messageDoc) toDomain() domain.Message {
	return domain.Message{
		ID:             d.ID,
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		ReceiverID:     d.ReceiverID,
		Text:           d.Text,
		Read:           d.Read,
		Timestamp:      d.Timestamp,
	}
}

type MessageStore struct {
	collection *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{collection: db.Collection(messagesCollection)}
}

func (s *MessageStore) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	_, err := s.collection.InsertOne(ctx, messageDoc{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Text:           msg.Text,
		Read:           msg.Read,
		Timestamp:      msg.Timestamp,
	})
	return mapError(err)
}

func (s *MessageStore) ListConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return s.find(ctx, bson.M{"conversation_id": conversationID}, 1)
}

func (s *MessageStore) ListForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	return s.find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}, -1)
}

func (s *MessageStore) find(ctx context.Context, filter bson.M, order int) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: order}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *MessageStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"receiver_id": userID, "read": false})
}

func (s *MessageStore) MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	res, err := s.collection.UpdateMany(ctx,
		bson.M{"conversation_id": conversationID, "receiver_id": readerID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
