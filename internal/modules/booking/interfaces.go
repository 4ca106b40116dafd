package booking

import (
	"context"

	"shugly/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error)
	ListPendingForWorker(ctx context.Context, workerID string) ([]domain.Booking, error)
	Transition(ctx context.Context, id string, from, to domain.BookingStatus, adminApproved *bool) (*domain.Booking, error)
	Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error)
}

type WorkerReader interface {
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type Notifier interface {
	BookingCreated(ctx context.Context, b *domain.Booking)
	BookingStatusChanged(ctx context.Context, b *domain.Booking, actor domain.UserRole)
}
