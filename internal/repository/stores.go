package repository

import (
	"context"

	"shugly/internal/domain"

	"gorm.io/gorm"
)

// Users, Workers, Bookings, Reviews and Messages are the full store contracts. Both the gorm
// repositories here and the mongostore package implement them.
type Users interface {
	Create(ctx context.Context, u *domain.User) error
	CreateAccount(ctx context.Context, u *domain.User, w *domain.Worker) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	List(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	Count(ctx context.Context, role domain.UserRole) (int64, error)
	UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.UserRole) error
	SetDeviceToken(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
}

type Workers interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	ListAvailable(ctx context.Context) ([]domain.Worker, error)
	ListAll(ctx context.Context) ([]domain.Worker, error)
	Count(ctx context.Context) (int64, error)
	UpsertProfile(ctx context.Context, id string, upd domain.WorkerProfileUpdate) (*domain.Worker, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	AddImage(ctx context.Context, id, url string) (*domain.Worker, error)
	ApplyReview(ctx context.Context, id string, rating int) error
	Delete(ctx context.Context, id string) error
}

type Bookings interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error)
	ListPendingForWorker(ctx context.Context, workerID string) ([]domain.Booking, error)
	Transition(ctx context.Context, id string, from, to domain.BookingStatus, adminApproved *bool) (*domain.Booking, error)
	Counts(ctx context.Context, f domain.BookingFilter) (domain.BookingCounts, error)
	BackfillAdminApproved(ctx context.Context, batchSize int) (int64, error)
}

type Reviews interface {
	Create(ctx context.Context, rv *domain.Review) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error)
}

type Messages interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Message, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error)
}

type Stores struct {
	Users    Users
	Workers  Workers
	Bookings Bookings
	Reviews  Reviews
	Messages Messages
}

var (
	_ Users    = (*UserRepository)(nil)
	_ Workers  = (*WorkerRepository)(nil)
	_ Bookings = (*BookingRepository)(nil)
	_ Reviews  = (*ReviewRepository)(nil)
	_ Messages = (*MessageRepository)(nil)
)

func NewSQLStores(db *gorm.DB) Stores {
	return Stores{
		Users:    NewUserRepository(db),
		Workers:  NewWorkerRepository(db),
		Bookings: NewBookingRepository(db),
		Reviews:  NewReviewRepository(db),
		Messages: NewMessageRepository(db),
	}
}
