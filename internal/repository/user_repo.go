package repository

import (
	"context"
	"strings"
	"time"

	"shugly/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex;size:255"`
	Phone        *string   `gorm:"column:phone"`
	Role         string    `gorm:"column:role;index;size:16"`
	AvatarURL    *string   `gorm:"column:avatar_url"`
	PasswordHash string    `gorm:"column:password_hash"`
	DeviceToken  *string   `gorm:"column:device_token"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        derefString(m.Phone),
		Role:         domain.UserRole(m.Role),
		AvatarURL:    derefString(m.AvatarURL),
		PasswordHash: m.PasswordHash,
		DeviceToken:  derefString(m.DeviceToken),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        strings.TrimSpace(strings.ToLower(u.Email)),
		Phone:        nullableString(u.Phone),
		Role:         string(u.Role),
		AvatarURL:    nullableString(u.AvatarURL),
		PasswordHash: u.PasswordHash,
		DeviceToken:  nullableString(u.DeviceToken),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.ID = newID(u.ID)
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapError(err)
	}
	*u = *toDomainUser(m)
	return nil
}

// CreateAccount stores the user and, for workers, its worker record in one transaction.
func (r *UserRepository) CreateAccount(ctx context.Context, u *domain.User, w *domain.Worker) error {
	u.ID = newID(u.ID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toUserModel(u)
		if err := tx.Create(&m).Error; err != nil {
			return mapError(err)
		}
		*u = *toDomainUser(m)

		if w == nil {
			return nil
		}
		w.ID = u.ID
		wm := toWorkerModel(w)
		if err := tx.Create(&wm).Error; err != nil {
			return mapError(err)
		}
		*w = *toDomainWorker(wm)
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, mapError(tx.Error)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	var rows []userModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainUsers(rows), nil
}

// List returns users newest first; an empty role matches every user.
func (r *UserRepository) List(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", string(role))
	}
	var rows []userModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainUsers(rows), nil
}

func (r *UserRepository) Count(ctx context.Context, role domain.UserRole) (int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel{})
	if role != "" {
		q = q.Where("role = ?", string(role))
	}
	var n int64
	return n, q.Count(&n).Error
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error) {
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"name":       name,
		"phone":      nullableString(phone),
		"updated_at": time.Now(),
	})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	return r.updateColumn(ctx, id, "role", string(role))
}

func (r *UserRepository) SetDeviceToken(ctx context.Context, id, token string) error {
	return r.updateColumn(ctx, id, "device_token", nullableString(token))
}

func (r *UserRepository) updateColumn(ctx context.Context, id, column string, value any) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		column:       value,
		"updated_at": time.Now(),
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the user and its worker record. Bookings, reviews and messages stay.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&userModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("id = ?", id).Delete(&workerModel{}).Error
	})
}

func toDomainUsers(rows []userModel) []domain.User {
	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out
}
