package mongostore

import (
	"context"
	"strings"
	"time"

	"shugly/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone,omitempty"`
	Role         string    `bson:"role"`
	AvatarURL    string    `bson:"avatar_url,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	DeviceToken  string    `bson:"device_token,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Role:         domain.UserRole(d.Role),
		AvatarURL:    d.AvatarURL,
		PasswordHash: d.PasswordHash,
		DeviceToken:  d.DeviceToken,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func newUserDoc(u *domain.User) userDoc {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return userDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         string(u.Role),
		AvatarURL:    u.AvatarURL,
		PasswordHash: u.PasswordHash,
		DeviceToken:  u.DeviceToken,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type UserStore struct {
	collection *mongo.Collection
	workers    *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{
		collection: db.Collection(usersCollection),
		workers:    db.Collection(workersCollection),
	}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	_, err := s.collection.InsertOne(ctx, newUserDoc(u))
	return mapError(err)
}

// CreateAccount inserts the user and then its worker record. Without a replica set there
// are no transactions, so a failed worker insert removes the user again.
func (s *UserStore) CreateAccount(ctx context.Context, u *domain.User, w *domain.Worker) error {
	if err := s.Create(ctx, u); err != nil {
		return err
	}
	if w == nil {
		return nil
	}

	w.ID = u.ID
	if _, err := s.workers.InsertOne(ctx, newWorkerDoc(w)); err != nil {
		_, _ = s.collection.DeleteOne(ctx, bson.M{"_id": u.ID})
		return mapError(err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	u := doc.toDomain()
	return &u, nil
}

func (s *UserStore) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (s *UserStore) List(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = string(role)
	}
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (s *UserStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.User, error) {
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *UserStore) Count(ctx context.Context, role domain.UserRole) (int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = string(role)
	}
	return s.collection.CountDocuments(ctx, filter)
}

func (s *UserStore) UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error) {
	if err := s.set(ctx, id, bson.M{"name": name, "phone": phone}); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	return s.set(ctx, id, bson.M{"role": string(role)})
}

func (s *UserStore) SetDeviceToken(ctx context.Context, id, token string) error {
	return s.set(ctx, id, bson.M{"device_token": token})
}

func (s *UserStore) set(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := s.collection.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	_, err = s.workers.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
