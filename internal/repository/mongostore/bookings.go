package mongostore

import (
	"context"
	"errors"
	"time"

	"shugly/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminApproved is absent on documents written before the approval gate.
type bookingDoc struct {
	ID            string    `bson:"_id"`
	CustomerID    string    `bson:"customer_id"`
	WorkerID      string    `bson:"worker_id"`
	Service       string    `bson:"service"`
	Date          string    `bson:"date"`
	Time          string    `bson:"time"`
	Duration      int       `bson:"duration"`
	TotalPrice    float64   `bson:"total_price"`
	Status        string    `bson:"status"`
	AdminApproved *bool     `bson:"admin_approved,omitempty"`
	Notes         string    `bson:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d bookingDoc) toDomain() domain.Booking {
	return domain.Booking{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		WorkerID:      d.WorkerID,
		Service:       d.Service,
		Date:          d.Date,
		Time:          d.Time,
		Duration:      d.Duration,
		TotalPrice:    d.TotalPrice,
		Status:        domain.BookingStatus(d.Status),
		AdminApproved: d.AdminApproved != nil && *d.AdminApproved,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type BookingStore struct {
	collection *mongo.Collection
}

func NewBookingStore(db *mongo.Database) *BookingStore {
	return &BookingStore{collection: db.Collection(bookingsCollection)}
}

func (s *BookingStore) Create(ctx context.Context, b *domain.Booking) error {
	now := time.Now().UTC()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	approved := b.AdminApproved
	doc := bookingDoc{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		WorkerID:      b.WorkerID,
		Service:       b.Service,
		Date:          b.Date,
		Time:          b.Time,
		Duration:      b.Duration,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		AdminApproved: &approved,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	_, err := s.collection.InsertOne(ctx, doc)
	return mapError(err)
}

func (s *BookingStore) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var doc bookingDoc
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	b := doc.toDomain()
	return &b, nil
}

func (s *BookingStore) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	return s.find(ctx, bookingFilter(f))
}

func (s *BookingStore) ListPendingForWorker(ctx context.Context, workerID string) ([]domain.Booking, error) {
	return s.find(ctx, bson.M{
		"worker_id":      workerID,
		"status":         string(domain.BookingPending),
		"admin_approved": bson.M{"$ne": true},
	})
}

func (s *BookingStore) find(ctx context.Context, filter bson.M) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []bookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Transition is a compare-and-set on the status field.
func (s *BookingStore) Transition(ctx context.Context, id string, from, to domain.BookingStatus, adminApproved *bool) (*domain.Booking, error) {
	set := bson.M{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if adminApproved != nil {
		set["admin_approved"] = *adminApproved
	}

	var doc bookingDoc
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		b := doc.toDomain()
		return &b, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrStale
}

func (s *BookingStore) Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bookingFilter(f)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$total_price"},
		}}},
	}

	var counts domain.BookingCounts
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}

	var buckets []struct {
		Status string  `bson:"_id"`
		Count  int64   `bson:"count"`
		Total  float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return counts, err
	}
	for _, b := range buckets {
		counts.Add(domain.BookingStatus(b.Status), b.Count, b.Total)
	}
	return counts, nil
}

// BackfillAdminApproved writes admin_approved on documents that lack it, in batches.
func (s *BookingStore) BackfillAdminApproved(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	missing := bson.M{"admin_approved": bson.M{"$exists": false}}

	var total int64
	for {
		cursor, err := s.collection.Find(ctx, missing,
			options.Find().SetLimit(int64(batchSize)).SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return total, err
		}
		var rows []struct {
			ID string `bson:"_id"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			return total, err
		}
		if len(rows) == 0 {
			return total, nil
		}

		ids := make([]string, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}

		update := mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"admin_approved": bson.M{"$eq": bson.A{"$status", string(domain.BookingAccepted)}},
			}}},
		}
		res, err := s.collection.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ids}, "admin_approved": bson.M{"$exists": false}},
			update,
		)
		if err != nil {
			return total, err
		}
		total += res.ModifiedCount

		if len(rows) < batchSize {
			return total, nil
		}
	}
}

func bookingFilter(f domain.BookingFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	if f.WorkerID != "" {
		filter["worker_id"] = f.WorkerID
	}
	return filter
}
