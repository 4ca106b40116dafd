package repository

import (
	"context"
	"time"

	"shugly/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	BookingID  string    `gorm:"column:booking_id;uniqueIndex;size:36"`
	CustomerID string    `gorm:"column:customer_id;index;size:36"`
	WorkerID   string    `gorm:"column:worker_id;index;size:36"`
	Rating     int       `gorm:"column:rating"`
	Comment    *string   `gorm:"column:comment;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:         m.ID,
		BookingID:  m.BookingID,
		CustomerID: m.CustomerID,
		WorkerID:   m.WorkerID,
		Rating:     m.Rating,
		Comment:    derefString(m.Comment),
		CreatedAt:  m.CreatedAt,
	}
}

// Create fails with domain.ErrConflict when the booking already has a review.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	rv.ID = newID(rv.ID)
	m := reviewModel{
		ID:         rv.ID,
		BookingID:  rv.BookingID,
		CustomerID: rv.CustomerID,
		WorkerID:   rv.WorkerID,
		Rating:     rv.Rating,
		Comment:    nullableString(rv.Comment),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapError(err)
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reviewModel{}).Where("booking_id = ?", bookingID).Count(&n).Error
	return n > 0, err
}

// ListByWorker returns the worker's reviews newest first.
func (r *ReviewRepository) ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}
