package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shugly/internal/domain"
	"shugly/internal/pkg/validator"
)

type Service struct {
	bookings BookingRepository
	workers  WorkerReader
	users    UserReader
	notifier Notifier
	now      func() time.Time
}

func NewService(bookings BookingRepository, workers WorkerReader, users UserReader, notifier Notifier) *Service {
	return &Service{
		bookings: bookings,
		workers:  workers,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

// Actor is whoever performs a booking operation, as resolved by the session.
type Actor struct {
	UserID string
	Role   domain.UserRole
}

func (s *Service) Create(ctx context.Context, customerID string, req CreateBookingRequest) (*domain.Booking, error) {
	if !domain.IsTimeSlot(req.Time) || !domain.IsDuration(req.Duration) {
		return nil, ErrInvalidSlot
	}
	day, err := time.ParseInLocation(validator.DateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		return nil, ErrDateInPast
	}

	w, err := s.workers.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}
	if !w.Availability {
		return nil, ErrWorkerUnavailable
	}
	// A demoted worker keeps the record but can no longer accept.
	owner, err := s.users.GetByID(ctx, w.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("get worker user: %w", err)
	}
	if owner.Role != domain.RoleWorker {
		return nil, ErrWorkerUnavailable
	}
	if !offers(w, req.Service) {
		return nil, ErrServiceNotOffered
	}

	b := &domain.Booking{
		CustomerID:    customerID,
		WorkerID:      w.ID,
		Service:       req.Service,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		TotalPrice:    domain.BookingPrice(w.HourlyRate, req.Duration),
		Status:        domain.BookingPending,
		AdminApproved: false,
		Notes:         req.Notes,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	slog.InfoContext(ctx, "booking created", "booking_id", b.ID, "customer_id", customerID, "worker_id", w.ID, "total_price", b.TotalPrice)
	s.notifier.BookingCreated(ctx, b)
	return b, nil
}

// offers falls back to the default catalog for workers who have not listed services yet.
func offers(w *domain.Worker, service string) bool {
	if len(w.Services) > 0 {
		return w.Offers(service)
	}
	for _, s := range domain.DefaultWorkerServices {
		if s == service {
			return true
		}
	}
	return false
}

// Act applies one lifecycle action. The status write is conditional on the status that was
// read, so of two concurrent actors only the first succeeds.
func (s *Service) Act(ctx context.Context, actor Actor, bookingID string, action Action) (*domain.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, b) {
		return nil, ErrForbidden
	}

	step, err := Next(b.Status, actor.Role, action)
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.Transition(ctx, b.ID, b.Status, step.To, step.AdminApproved)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStale):
			return nil, ErrBookingConflict
		case errors.Is(err, domain.ErrNotFound):
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("transition booking: %w", err)
	}

	slog.InfoContext(ctx, "booking transitioned",
		"booking_id", updated.ID,
		"from", b.Status,
		"to", updated.Status,
		"actor_id", actor.UserID,
		"actor_role", actor.Role,
		"admin_approved", updated.AdminApproved,
	)
	s.notifier.BookingStatusChanged(ctx, updated, actor.Role)
	return updated, nil
}

func (s *Service) Get(ctx context.Context, actor Actor, bookingID string) (*BookingView, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, b) {
		return nil, ErrForbidden
	}
	views, err := s.views(ctx, actor.Role, []domain.Booking{*b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListMine returns the caller's bookings, newest first: placed ones for customers,
// received ones for workers.
func (s *Service) ListMine(ctx context.Context, actor Actor) ([]BookingView, error) {
	var f domain.BookingFilter
	switch actor.Role {
	case domain.RoleCustomer:
		f.CustomerID = actor.UserID
	case domain.RoleWorker:
		f.WorkerID = actor.UserID
	default:
		return nil, ErrForbidden
	}

	list, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.views(ctx, actor.Role, list)
}

// ListPending is the worker's inbox: pending bookings not yet decided by an admin.
func (s *Service) ListPending(ctx context.Context, workerID string) ([]BookingView, error) {
	list, err := s.bookings.ListPendingForWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}
	return s.views(ctx, domain.RoleWorker, list)
}

// ListAll is the admin listing. An empty status lists everything.
func (s *Service) ListAll(ctx context.Context, status domain.BookingStatus) ([]BookingView, error) {
	list, err := s.bookings.List(ctx, domain.BookingFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.views(ctx, domain.RoleAdmin, list)
}

func (s *Service) CustomerStats(ctx context.Context, customerID string) (CustomerStats, error) {
	c, err := s.bookings.Counts(ctx, domain.BookingFilter{CustomerID: customerID})
	if err != nil {
		return CustomerStats{}, fmt.Errorf("count bookings: %w", err)
	}
	return CustomerStats{
		Total:     c.Total,
		Pending:   c.Pending,
		Accepted:  c.Accepted,
		Completed: c.Completed,
		Cancelled: c.Cancelled,
	}, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func canSee(actor Actor, b *domain.Booking) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return b.CustomerID == actor.UserID
	case domain.RoleWorker:
		return b.WorkerID == actor.UserID
	}
	return false
}

func (s *Service) views(ctx context.Context, role domain.UserRole, list []domain.Booking) ([]BookingView, error) {
	ids := make([]string, 0, len(list)*2)
	for _, b := range list {
		ids = append(ids, b.CustomerID, b.WorkerID)
	}

	names := map[string]string{}
	if len(ids) > 0 {
		users, err := s.users.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load booking participants: %w", err)
		}
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}

	out := make([]BookingView, 0, len(list))
	for _, b := range list {
		out = append(out, BookingView{
			Booking:      b,
			CustomerName: names[b.CustomerID],
			WorkerName:   names[b.WorkerID],
			Actions:      AvailableActions(b.Status, role),
		})
	}
	return out, nil
}
