package repository

import (
	"context"
	"time"

	"shugly/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// AdminApproved is NULL on legacy rows written before the admin approval gate existed.
type bookingModel struct {
	ID            string    `gorm:"column:id;primaryKey;size:36"`
	CustomerID    string    `gorm:"column:customer_id;index;size:36"`
	WorkerID      string    `gorm:"column:worker_id;index;size:36"`
	Service       string    `gorm:"column:service"`
	Date          string    `gorm:"column:date;size:10"`
	Time          string    `gorm:"column:time;size:5"`
	Duration      int       `gorm:"column:duration"`
	TotalPrice    float64   `gorm:"column:total_price"`
	Status        string    `gorm:"column:status;index;size:16"`
	AdminApproved *bool     `gorm:"column:admin_approved"`
	Notes         *string   `gorm:"column:notes;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		WorkerID:      m.WorkerID,
		Service:       m.Service,
		Date:          m.Date,
		Time:          m.Time,
		Duration:      m.Duration,
		TotalPrice:    m.TotalPrice,
		Status:        domain.BookingStatus(m.Status),
		AdminApproved: m.AdminApproved != nil && *m.AdminApproved,
		Notes:         derefString(m.Notes),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	approved := b.AdminApproved
	return bookingModel{
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
		Notes:         nullableString(b.Notes),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	b.ID = newID(b.ID)
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapError(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainBooking(m), nil
}

// List returns bookings newest first.
func (r *BookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	var rows []bookingModel
	if err := r.filtered(ctx, f).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// ListPendingForWorker returns pending bookings addressed to the worker that an admin
// has not approved yet.
func (r *BookingRepository) ListPendingForWorker(ctx context.Context, workerID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND status = ?", workerID, string(domain.BookingPending)).
		Where("admin_approved = ? OR admin_approved IS NULL", false).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// Transition moves the booking from one status to another only if it is still in the
// expected status. adminApproved is written when non-nil.
func (r *BookingRepository) Transition(ctx context.Context, id string, from, to domain.BookingStatus, adminApproved *bool) (*domain.Booking, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	if adminApproved != nil {
		updates["admin_approved"] = *adminApproved
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrStale
	}
	return r.GetByID(ctx, id)
}

type statusBucket struct {
	Status string  `gorm:"column:status"`
	Count  int64   `gorm:"column:cnt"`
	Sum    float64 `gorm:"column:total"`
}

func (r *BookingRepository) Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error) {
	var buckets []statusBucket
	err := r.filtered(ctx, f).
		Model(&bookingModel{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(total_price), 0) AS total").
		Group("status").
		Scan(&buckets).Error

	var counts domain.BookingCounts
	if err != nil {
		return counts, err
	}
	for _, b := range buckets {
		counts.Add(domain.BookingStatus(b.Status), b.Count, b.Sum)
	}
	return counts, nil
}

// BackfillAdminApproved sets admin_approved on legacy rows, true for accepted bookings
// and false otherwise. Only NULL rows are touched so reruns are no-ops.
func (r *BookingRepository) BackfillAdminApproved(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	var total int64
	for {
		var ids []string
		err := r.db.WithContext(ctx).
			Model(&bookingModel{}).
			Where("admin_approved IS NULL").
			Limit(batchSize).
			Pluck("id", &ids).Error
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}

		tx := r.db.WithContext(ctx).
			Model(&bookingModel{}).
			Where("id IN ? AND admin_approved IS NULL", ids).
			Update("admin_approved", gorm.Expr("CASE WHEN status = ? THEN ? ELSE ? END", string(domain.BookingAccepted), true, false))
		if tx.Error != nil {
			return total, tx.Error
		}
		total += tx.RowsAffected

		if len(ids) < batchSize {
			return total, nil
		}
	}
}

func (r *BookingRepository) filtered(ctx context.Context, f domain.BookingFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.WorkerID != "" {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	return q
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}
