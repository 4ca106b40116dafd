package mongostore

import (
	"shugly/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	_ repository.Users    = (*UserStore)(nil)
	_ repository.Workers  = (*WorkerStore)(nil)
	_ repository.Bookings = (*BookingStore)(nil)
	_ repository.Reviews  = (*ReviewStore)(nil)
	_ repository.Messages = (*MessageStore)(nil)
)

func NewStores(db *mongo.Database) repository.Stores {
	return repository.Stores{
		Users:    NewUserStore(db),
		Workers:  NewWorkerStore(db),
		Bookings: NewBookingStore(db),
		Reviews:  NewReviewStore(db),
		Messages: NewMessageStore(db),
	}
}
