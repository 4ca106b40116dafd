package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shugly/internal/domain"
)

type Service struct {
	reviews  ReviewRepository
	bookings BookingReader
	ratings  RatingUpdater
	users    UserReader
	notifier Notifier
}

func NewService(reviews ReviewRepository, bookings BookingReader, ratings RatingUpdater, users UserReader, notifier Notifier) *Service {
	return &Service{reviews: reviews, bookings: bookings, ratings: ratings, users: users, notifier: notifier}
}

// Create stores the customer's review of a completed booking and folds the rating into
// the worker record. Each booking takes one review.
func (s *Service) Create(ctx context.Context, customerID string, req CreateReviewRequest) (*domain.Review, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrReviewNotAllowed
	}

	exists, err := s.reviews.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		BookingID:  b.ID,
		CustomerID: customerID,
		WorkerID:   b.WorkerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.ratings.ApplyReview(ctx, b.WorkerID, rv.Rating); err != nil {
		slog.ErrorContext(ctx, "failed to apply review rating", "review_id", rv.ID, "worker_id", b.WorkerID, "error", err)
	}

	s.notifier.ReviewPosted(ctx, rv)
	return rv, nil
}

// ListByWorker returns the worker's reviews newest first with reviewer names.
func (s *Service) ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error) {
	list, err := s.reviews.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]string, len(list))
	for i, rv := range list {
		ids[i] = rv.CustomerID
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load reviewers: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for i := range list {
		list[i].CustomerName = names[list[i].CustomerID]
	}
	return list, nil
}
