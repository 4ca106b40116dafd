package repository

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"shugly/internal/domain"
	"shugly/internal/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkerRepository struct {
	db *gorm.DB
	// sortColumn drives the server-side ordering of ListAvailable.
	sortColumn string
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{db: db, sortColumn: "rating"}
}

type workerModel struct {
	ID           string                      `gorm:"column:id;primaryKey;size:36"`
	Services     datatypes.JSONSlice[string] `gorm:"column:services"`
	HourlyRate   float64                     `gorm:"column:hourly_rate"`
	Rating       float64                     `gorm:"column:rating;index"`
	ReviewsCount int                         `gorm:"column:reviews_count"`
	RatingSum    int                         `gorm:"column:rating_sum;not null;default:0"`
	Bio          string                      `gorm:"column:bio;type:text"`
	Images       datatypes.JSONSlice[string] `gorm:"column:images"`
	Location     string                      `gorm:"column:location"`
	Availability bool                        `gorm:"column:availability;index"`
	CreatedAt    time.Time                   `gorm:"column:created_at"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at"`
}

func (workerModel) TableName() string { return "workers" }

func toDomainWorker(m workerModel) *domain.Worker {
	return &domain.Worker{
		ID:           m.ID,
		Services:     utils.OrEmpty(m.Services),
		HourlyRate:   m.HourlyRate,
		Rating:       m.Rating,
		ReviewsCount: m.ReviewsCount,
		RatingSum:    m.RatingSum,
		Bio:          m.Bio,
		Images:       utils.OrEmpty(m.Images),
		Location:     m.Location,
		Availability: m.Availability,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toWorkerModel(w *domain.Worker) workerModel {
	return workerModel{
		ID:           w.ID,
		Services:     datatypes.NewJSONSlice(w.Services),
		HourlyRate:   w.HourlyRate,
		Rating:       w.Rating,
		ReviewsCount: w.ReviewsCount,
		RatingSum:    w.RatingSum,
		Bio:          w.Bio,
		Images:       datatypes.NewJSONSlice(w.Images),
		Location:     w.Location,
		Availability: w.Availability,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func (r *WorkerRepository) Create(ctx context.Context, w *domain.Worker) error {
	m := toWorkerModel(w)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapError(err)
	}
	*w = *toDomainWorker(m)
	return nil
}

func (r *WorkerRepository) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	var m workerModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainWorker(m), nil
}

// ListAvailable returns available workers by rating, best first. When the sorted query
// is rejected by the store it falls back to an unsorted fetch ordered in memory.
func (r *WorkerRepository) ListAvailable(ctx context.Context) ([]domain.Worker, error) {
	var rows []workerModel
	err := r.db.WithContext(ctx).
		Where("availability = ?", true).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: r.sortColumn}, Desc: true},
			{Column: clause.Column{Name: "created_at"}},
		}}).
		Find(&rows).Error
	if err == nil {
		return toDomainWorkers(rows), nil
	}

	slog.WarnContext(ctx, "sorted worker query failed, sorting in memory", "error", err)

	rows = nil
	if err := r.db.WithContext(ctx).Where("availability = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	workers := toDomainWorkers(rows)
	SortByRating(workers)
	return workers, nil
}

// SortByRating orders workers by rating desc, oldest record first on ties.
func SortByRating(workers []domain.Worker) {
	sort.SliceStable(workers, func(i, j int) bool {
		if workers[i].Rating != workers[j].Rating {
			return workers[i].Rating > workers[j].Rating
		}
		return workers[i].CreatedAt.Before(workers[j].CreatedAt)
	})
}

func (r *WorkerRepository) ListAll(ctx context.Context) ([]domain.Worker, error) {
	var rows []workerModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainWorkers(rows), nil
}

func (r *WorkerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&workerModel{}).Count(&n).Error
}

// UpsertProfile writes the editable profile fields, creating the record with defaults
// when the worker has none yet. Availability, rating and images are left untouched.
func (r *WorkerRepository) UpsertProfile(ctx context.Context, id string, upd domain.WorkerProfileUpdate) (*domain.Worker, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m workerModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w := domain.NewWorker(id)
			w.Services, w.HourlyRate, w.Bio, w.Location = upd.Services, upd.HourlyRate, upd.Bio, upd.Location
			nm := toWorkerModel(w)
			return tx.Create(&nm).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&workerModel{}).Where("id = ?", id).Updates(map[string]any{
			"services":    datatypes.NewJSONSlice(upd.Services),
			"hourly_rate": upd.HourlyRate,
			"bio":         upd.Bio,
			"location":    upd.Location,
			"updated_at":  time.Now(),
		}).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *WorkerRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	tx := r.db.WithContext(ctx).Model(&workerModel{}).Where("id = ?", id).Updates(map[string]any{
		"availability": available,
		"updated_at":   time.Now(),
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WorkerRepository) AddImage(ctx context.Context, id, url string) (*domain.Worker, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m workerModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		images := append([]string(m.Images), url)
		return tx.Model(&workerModel{}).Where("id = ?", id).Updates(map[string]any{
			"images":     datatypes.NewJSONSlice(images),
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return r.GetByID(ctx, id)
}

// ApplyReview folds one rating into the worker's average under a row lock.
func (r *WorkerRepository) ApplyReview(ctx context.Context, id string, rating int) error {
	return mapError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m workerModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		w := toDomainWorker(m)
		w.ApplyRating(rating)
		return tx.Model(&workerModel{}).Where("id = ?", id).Updates(map[string]any{
			"rating":        w.Rating,
			"reviews_count": w.ReviewsCount,
			"rating_sum":    w.RatingSum,
			"updated_at":    time.Now(),
		}).Error
	}))
}

func (r *WorkerRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&workerModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toDomainWorkers(rows []workerModel) []domain.Worker {
	out := make([]domain.Worker, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWorker(m))
	}
	return out
}
