package admin

import (
	"context"

	"shugly/internal/domain"
	"shugly/internal/modules/booking"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	List(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	Count(ctx context.Context, role domain.UserRole) (int64, error)
	UpdateRole(ctx context.Context, id string, role domain.UserRole) error
	Delete(ctx context.Context, id string) error
}

type WorkerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	Create(ctx context.Context, w *domain.Worker) error
	ListAll(ctx context.Context) ([]domain.Worker, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type BookingStore interface {
	Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error)
	BackfillAdminApproved(ctx context.Context, batchSize int) (int64, error)
}

// BookingLifecycle is the booking service; admin decisions go through the same transition table.
type BookingLifecycle interface {
	ListAll(ctx context.Context, status domain.BookingStatus) ([]booking.BookingView, error)
	Act(ctx context.Context, actor booking.Actor, bookingID string, action booking.Action) (*domain.Booking, error)
}
