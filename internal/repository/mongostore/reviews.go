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

type reviewDoc struct {
	ID         string    `bson:"_id"`
	BookingID  string    `bson:"booking_id"`
	CustomerID string    `bson:"customer_id"`
	WorkerID   string    `bson:"worker_id"`
	Rating     int       `bson:"rating"`
	Comment    string    `bson:"comment,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

type ReviewStore struct {
	collection *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{collection: db.Collection(reviewsCollection)}
}

// Create relies on the unique booking_id index for one review per booking.
func (s *ReviewStore) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	_, err := s.collection.InsertOne(ctx, reviewDoc{
		ID:         rv.ID,
		BookingID:  rv.BookingID,
		CustomerID: rv.CustomerID,
		WorkerID:   rv.WorkerID,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt,
	})
	return mapError(err)
}

func (s *ReviewStore) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{"booking_id": bookingID}, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *ReviewStore) ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"worker_id": workerID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []reviewDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Review{
			ID:         d.ID,
			BookingID:  d.BookingID,
			CustomerID: d.CustomerID,
			WorkerID:   d.WorkerID,
			Rating:     d.Rating,
			Comment:    d.Comment,
			CreatedAt:  d.CreatedAt,
		})
	}
	return out, nil
}
