package mongostore

import (
	"context"
	"log/slog"
	"time"

	"shugly/internal/domain"
	"shugly/internal/pkg/utils"
	"shugly/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type workerDoc struct {
	ID           string    `bson:"_id"`
	Services     []string  `bson:"services"`
	HourlyRate   float64   `bson:"hourly_rate"`
	Rating       float64   `bson:"rating"`
	ReviewsCount int       `bson:"reviews_count"`
	RatingSum    int       `bson:"rating_sum"`
	Bio          string    `bson:"bio"`
	Images       []string  `bson:"images"`
	Location     string    `bson:"location"`
	Availability bool      `bson:"availability"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d workerDoc) toDomain() domain.Worker {
	w := domain.Worker{
		ID:           d.ID,
		Services:     d.Services,
		HourlyRate:   d.HourlyRate,
		Rating:       d.Rating,
		ReviewsCount: d.ReviewsCount,
		RatingSum:    d.RatingSum,
		Bio:          d.Bio,
		Images:       d.Images,
		Location:     d.Location,
		Availability: d.Availability,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	w.Services = utils.OrEmpty(w.Services)
	w.Images = utils.OrEmpty(w.Images)
	return w
}

func newWorkerDoc(w *domain.Worker) workerDoc {
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	w.Services = utils.OrEmpty(w.Services)
	w.Images = utils.OrEmpty(w.Images)
	return workerDoc{
		ID:           w.ID,
		Services:     w.Services,
		HourlyRate:   w.HourlyRate,
		Rating:       w.Rating,
		ReviewsCount: w.ReviewsCount,
		RatingSum:    w.RatingSum,
		Bio:          w.Bio,
		Images:       w.Images,
		Location:     w.Location,
		Availability: w.Availability,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

type WorkerStore struct {
	collection *mongo.Collection
}

func NewWorkerStore(db *mongo.Database) *WorkerStore {
	return &WorkerStore{collection: db.Collection(workersCollection)}
}

func (s *WorkerStore) Create(ctx context.Context, w *domain.Worker) error {
	_, err := s.collection.InsertOne(ctx, newWorkerDoc(w))
	return mapError(err)
}

func (s *WorkerStore) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	var doc workerDoc
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	w := doc.toDomain()
	return &w, nil
}

// ListAvailable sorts on the server; if the query is rejected (a missing index on a
// restricted deployment, for instance) it refetches unsorted and sorts in memory.
func (s *WorkerStore) ListAvailable(ctx context.Context) ([]domain.Worker, error) {
	filter := bson.M{"availability": true}
	sorted := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: 1}})

	workers, err := s.find(ctx, filter, sorted)
	if err == nil {
		return workers, nil
	}

	slog.WarnContext(ctx, "sorted worker query failed, sorting in memory", "error", err)

	workers, err = s.find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	repository.SortByRating(workers)
	return workers, nil
}

func (s *WorkerStore) ListAll(ctx context.Context) ([]domain.Worker, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (s *WorkerStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Worker, error) {
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []workerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Worker, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *WorkerStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

// UpsertProfile sets the editable fields; defaults are written only when the document
// is created by this call.
func (s *WorkerStore) UpsertProfile(ctx context.Context, id string, upd domain.WorkerProfileUpdate) (*domain.Worker, error) {
	now := time.Now().UTC()
	services := utils.OrEmpty(upd.Services)
	update := bson.M{
		"$set": bson.M{
			"services":    services,
			"hourly_rate": upd.HourlyRate,
			"bio":         upd.Bio,
			"location":    upd.Location,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"rating":        0.0,
			"reviews_count": 0,
			"images":        []string{},
			"availability":  true,
			"created_at":    now,
		},
	}
	if _, err := s.collection.UpdateByID(ctx, id, update, options.Update().SetUpsert(true)); err != nil {
		return nil, mapError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *WorkerStore) SetAvailability(ctx context.Context, id string, available bool) error {
	res, err := s.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"availability": available,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *WorkerStore) AddImage(ctx context.Context, id, url string) (*domain.Worker, error) {
	var doc workerDoc
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"images": url},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	w := doc.toDomain()
	return &w, nil
}

// ApplyReview adds the rating to the stored sum and recomputes the average from it, in a
// single pipeline update.
func (s *WorkerStore) ApplyReview(ctx context.Context, id string, rating int) error {
	res, err := s.collection.UpdateByID(ctx, id, applyReviewPipeline(rating))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func applyReviewPipeline(rating int) mongo.Pipeline {
	// Documents written before rating_sum existed start from their rounded average.
	legacySum := bson.M{"$round": bson.A{bson.M{"$multiply": bson.A{"$rating", "$reviews_count"}}, 0}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"rating_sum": bson.M{"$add": bson.A{
				bson.M{"$cond": bson.A{
					bson.M{"$gt": bson.A{bson.M{"$ifNull": bson.A{"$rating_sum", 0}}, 0}},
					"$rating_sum",
					legacySum,
				}},
				rating,
			}},
			"reviews_count": bson.M{"$add": bson.A{"$reviews_count", 1}},
			"updated_at":    time.Now().UTC(),
		}}},
		{{Key: "$set", Value: bson.M{
			"rating": bson.M{"$round": bson.A{
				bson.M{"$divide": bson.A{"$rating_sum", "$reviews_count"}},
				2,
			}},
		}}},
	}
}

func (s *WorkerStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
