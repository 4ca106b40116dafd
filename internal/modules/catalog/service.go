package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shugly/internal/cache"
	"shugly/internal/domain"
)

const (
	servicesCacheKey = "catalog:services"
	servicesCacheTTL = time.Minute
)

type WorkerLister interface {
	ListAvailable(ctx context.Context) ([]domain.Worker, error)
}

// Cache is satisfied by *cache.RedisClient.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type Service struct {
	workers WorkerLister
	cache   Cache
}

// NewService builds the catalog. c may be nil, in which case counts are computed per request.
func NewService(workers WorkerLister, c Cache) *Service {
	return &Service{workers: workers, cache: c}
}

// Services returns every catalog service in catalog order. A worker who lists no services
// counts toward the default set, matching what the booking form offers for them.
func (s *Service) Services(ctx context.Context) ([]ServiceEntry, error) {
	if s.cache != nil {
		var cached []ServiceEntry
		err := s.cache.Get(ctx, servicesCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			slog.WarnContext(ctx, "catalog cache read failed", "error", err)
		}
	}

	workers, err := s.workers.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available workers: %w", err)
	}

	counts := make(map[string]int, len(domain.Services))
	for _, w := range workers {
		offered := w.Services
		if len(offered) == 0 {
			offered = domain.DefaultWorkerServices
		}
		for _, name := range offered {
			counts[name]++
		}
	}

	entries := make([]ServiceEntry, len(domain.Services))
	for i, name := range domain.Services {
		entries[i] = ServiceEntry{Name: name, AvailableWorkers: counts[name]}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, servicesCacheKey, entries, servicesCacheTTL); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", "error", err)
		}
	}
	return entries, nil
}

func (s *Service) Meta() Meta {
	return Meta{
		Services:        domain.Services,
		TimeSlots:       domain.TimeSlots,
		Durations:       domain.Durations,
		Cities:          domain.IraqiCities,
		BookingStatuses: domain.BookingStatuses,
	}
}
