package worker

import (
	"context"
	"mime/multipart"

	"shugly/internal/domain"
)

type WorkerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	ListAvailable(ctx context.Context) ([]domain.Worker, error)
	UpsertProfile(ctx context.Context, id string, upd domain.WorkerProfileUpdate) (*domain.Worker, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	AddImage(ctx context.Context, id, url string) (*domain.Worker, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type BookingCounter interface {
	Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, ownerID string, fileHeader *multipart.FileHeader) (string, error)
}
