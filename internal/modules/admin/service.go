package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shugly/internal/domain"
	"shugly/internal/modules/booking"

	"golang.org/x/sync/errgroup"
)

const backfillBatchSize = 500

type Service struct {
	users     UserRepository
	workers   WorkerRepository
	bookings  BookingStore
	lifecycle BookingLifecycle
}

func NewService(users UserRepository, workers WorkerRepository, bookings BookingStore, lifecycle BookingLifecycle) *Service {
	return &Service{users: users, workers: workers, bookings: bookings, lifecycle: lifecycle}
}

// -------------------- Users --------------------

func (s *Service) ListUsers(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	if role != "" && !role.Valid() {
		return nil, ErrInvalidRole
	}
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ChangeRole sets a user's role. Promoting to worker creates the worker record when it is
// missing. Demoting a worker keeps the record but takes it off the listing.
func (s *Service) ChangeRole(ctx context.Context, adminID, userID string, role domain.UserRole) (*domain.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if adminID == userID {
		return nil, ErrSelfChange
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	if role == domain.RoleWorker {
		if _, err := s.ensureWorker(ctx, userID); err != nil {
			return nil, err
		}
	} else if err := s.workers.SetAvailability(ctx, userID, false); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("hide demoted worker: %w", err)
	}

	slog.InfoContext(ctx, "user role changed", "admin_id", adminID, "user_id", userID, "role", role)
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return ErrSelfChange
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	slog.InfoContext(ctx, "user deleted", "admin_id", adminID, "user_id", userID)
	return nil
}

// -------------------- Workers --------------------

func (s *Service) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	list, err := s.workers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]string, len(list))
	for i, w := range list {
		ids[i] = w.ID
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load worker users: %w", err)
	}
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range list {
		if u, ok := byID[list[i].ID]; ok {
			list[i].Name, list[i].Phone = u.Name, u.Phone
		}
	}
	return list, nil
}

func (s *Service) SetWorkerAvailability(ctx context.Context, workerID string, available bool) error {
	if err := s.workers.SetAvailability(ctx, workerID, available); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrWorkerNotFound
		}
		return fmt.Errorf("set availability: %w", err)
	}
	return nil
}

// DeleteWorker removes the worker record only; the user account stays.
func (s *Service) DeleteWorker(ctx context.Context, workerID string) error {
	if err := s.workers.Delete(ctx, workerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrWorkerNotFound
		}
		return fmt.Errorf("delete worker: %w", err)
	}
	return nil
}

// -------------------- Bookings --------------------

func (s *Service) ListBookings(ctx context.Context, status domain.BookingStatus) ([]booking.BookingView, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.lifecycle.ListAll(ctx, status)
}

func (s *Service) ApproveBooking(ctx context.Context, adminID, bookingID string) (*domain.Booking, error) {
	return s.lifecycle.Act(ctx, booking.Actor{UserID: adminID, Role: domain.RoleAdmin}, bookingID, booking.ActionApprove)
}

func (s *Service) RejectBooking(ctx context.Context, adminID, bookingID string) (*domain.Booking, error) {
	return s.lifecycle.Act(ctx, booking.Actor{UserID: adminID, Role: domain.RoleAdmin}, bookingID, booking.ActionReject)
}

// -------------------- Maintenance --------------------

// Stats gathers the platform counters concurrently.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.Users, err = s.users.Count(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		st.Customers, err = s.users.Count(ctx, domain.RoleCustomer)
		return err
	})
	g.Go(func() (err error) {
		st.Workers, err = s.users.Count(ctx, domain.RoleWorker)
		return err
	})
	g.Go(func() (err error) {
		st.Admins, err = s.users.Count(ctx, domain.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		st.Bookings, err = s.bookings.Counts(ctx, domain.BookingFilter{})
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	st.Revenue = st.Bookings.Revenue
	return st, nil
}

// BackfillAdminApproved fills the flag on legacy bookings. Safe to run repeatedly.
func (s *Service) BackfillAdminApproved(ctx context.Context) (BackfillReport, error) {
	n, err := s.bookings.BackfillAdminApproved(ctx, backfillBatchSize)
	if err != nil {
		return BackfillReport{Updated: n}, fmt.Errorf("backfill admin approval: %w", err)
	}
	slog.InfoContext(ctx, "admin approval backfill finished", "updated", n)
	return BackfillReport{Updated: n}, nil
}

// RepairWorkers creates the default worker record for every worker-role user without one.
func (s *Service) RepairWorkers(ctx context.Context) (RepairReport, error) {
	users, err := s.users.List(ctx, domain.RoleWorker)
	if err != nil {
		return RepairReport{}, fmt.Errorf("list worker users: %w", err)
	}

	var report RepairReport
	for _, u := range users {
		report.Checked++
		created, err := s.ensureWorker(ctx, u.ID)
		if err != nil {
			report.Failed++
			slog.WarnContext(ctx, "worker repair failed", "user_id", u.ID, "error", err)
			continue
		}
		if created {
			report.Created++
		}
	}
	slog.InfoContext(ctx, "worker repair finished", "checked", report.Checked, "created", report.Created, "failed", report.Failed)
	return report, nil
}

func (s *Service) ensureWorker(ctx context.Context, userID string) (bool, error) {
	_, err := s.workers.GetByID(ctx, userID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get worker: %w", err)
	}
	if err := s.workers.Create(ctx, domain.NewWorker(userID)); err != nil && !errors.Is(err, domain.ErrConflict) {
		return false, fmt.Errorf("create worker: %w", err)
	}
	return true, nil
}
