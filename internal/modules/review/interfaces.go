package review

import (
	"context"

	"shugly/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type RatingUpdater interface {
	ApplyReview(ctx context.Context, id string, rating int) error
}

type UserReader interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type Notifier interface {
	ReviewPosted(ctx context.Context, r *domain.Review)
}
