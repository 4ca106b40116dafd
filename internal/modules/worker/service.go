package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"slices"
	"strings"

	"shugly/internal/domain"
	"shugly/internal/pkg/utils"
)

type Service struct {
	workers  WorkerRepository
	users    UserReader
	bookings BookingCounter
	images   ImageUploader
}

func NewService(workers WorkerRepository, users UserReader, bookings BookingCounter, images ImageUploader) *Service {
	return &Service{workers: workers, users: users, bookings: bookings, images: images}
}

// ListAvailable returns bookable workers matching f, best rated first, with their owners'
// names. Records whose owner is no longer a worker are left out.
func (s *Service) ListAvailable(ctx context.Context, f ListFilter) ([]domain.Worker, error) {
	list, err := s.workers.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available workers: %w", err)
	}
	list, err = s.withOwners(ctx, list)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Worker, 0, len(list))
	for _, w := range list {
		if query != "" && !matchesQuery(w.Name, w.Services, query) {
			continue
		}
		if f.Service != "" && !w.Offers(f.Service) {
			continue
		}
		if w.Rating < f.MinRating {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func matchesQuery(name string, services []string, query string) bool {
	if strings.Contains(strings.ToLower(name), query) {
		return true
	}
	for _, svc := range services {
		if strings.Contains(strings.ToLower(svc), query) {
			return true
		}
	}
	return false
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Worker, error) {
	w, err := s.workers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}
	u, err := s.users.GetByID(ctx, id)
	switch {
	case err == nil:
		w.Name, w.Phone = u.Name, u.Phone
	case errors.Is(err, domain.ErrNotFound):
		return nil, ErrWorkerNotFound
	default:
		return nil, fmt.Errorf("get worker user: %w", err)
	}
	return w, nil
}

// OwnProfile returns the caller's worker record. A worker whose record is missing gets
// the defaults a new account would have; the next UpdateProfile stores it.
func (s *Service) OwnProfile(ctx context.Context, workerID string) (*domain.Worker, error) {
	w, err := s.Get(ctx, workerID)
	if errors.Is(err, ErrWorkerNotFound) {
		w = domain.NewWorker(workerID)
		if u, uerr := s.users.GetByID(ctx, workerID); uerr == nil {
			w.Name, w.Phone = u.Name, u.Phone
		}
		return w, nil
	}
	return w, err
}

func (s *Service) UpdateProfile(ctx context.Context, workerID string, req UpdateProfileRequest) (*domain.Worker, error) {
	services := utils.NormalizeList(req.Services)
	for _, svc := range services {
		if !slices.Contains(domain.Services, svc) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownService, svc)
		}
	}

	w, err := s.workers.UpsertProfile(ctx, workerID, domain.WorkerProfileUpdate{
		Services:   services,
		HourlyRate: req.HourlyRate,
		Bio:        req.Bio,
		Location:   req.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("update worker profile: %w", err)
	}
	if req.Availability != nil && *req.Availability != w.Availability {
		if err := s.workers.SetAvailability(ctx, workerID, *req.Availability); err != nil {
			return nil, fmt.Errorf("set availability: %w", err)
		}
		w.Availability = *req.Availability
	}
	slog.InfoContext(ctx, "worker profile updated", "worker_id", workerID, "services", len(services), "hourly_rate", req.HourlyRate)
	return w, nil
}

// SetAvailability flips only the availability flag.
func (s *Service) SetAvailability(ctx context.Context, workerID string, available bool) error {
	if err := s.workers.SetAvailability(ctx, workerID, available); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrWorkerNotFound
		}
		return fmt.Errorf("set availability: %w", err)
	}
	return nil
}

func (s *Service) UploadImage(ctx context.Context, workerID string, fileHeader *multipart.FileHeader) (*domain.Worker, error) {
	if _, err := s.workers.GetByID(ctx, workerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}

	url, err := s.images.Upload(ctx, workerID, fileHeader)
	if err != nil {
		return nil, err
	}

	w, err := s.workers.AddImage(ctx, workerID, url)
	if err != nil {
		return nil, fmt.Errorf("add worker image: %w", err)
	}
	return w, nil
}

func (s *Service) Stats(ctx context.Context, workerID string) (Stats, error) {
	counts, err := s.bookings.Counts(ctx, domain.BookingFilter{WorkerID: workerID})
	if err != nil {
		return Stats{}, fmt.Errorf("count worker bookings: %w", err)
	}

	stats := Stats{
		TotalBookings:     counts.Total,
		PendingBookings:   counts.Pending,
		AcceptedBookings:  counts.Accepted,
		CompletedBookings: counts.Completed,
		Earnings:          counts.Revenue,
	}

	w, err := s.workers.GetByID(ctx, workerID)
	switch {
	case err == nil:
		stats.Rating, stats.ReviewsCount = w.Rating, w.ReviewsCount
	case !errors.Is(err, domain.ErrNotFound):
		return Stats{}, fmt.Errorf("get worker: %w", err)
	}
	return stats, nil
}

// withOwners fills names from the owning users and drops records whose owner is gone or
// no longer a worker.
func (s *Service) withOwners(ctx context.Context, list []domain.Worker) ([]domain.Worker, error) {
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

	out := list[:0]
	for _, w := range list {
		u, ok := byID[w.ID]
		if !ok || u.Role != domain.RoleWorker {
			continue
		}
		w.Name, w.Phone = u.Name, u.Phone
		out = append(out, w)
	}
	return out, nil
}
