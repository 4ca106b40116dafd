package server

import (
	"shugly/internal/modules/admin"
	"shugly/internal/modules/auth"
	"shugly/internal/modules/booking"
	"shugly/internal/modules/catalog"
	"shugly/internal/modules/chat"
	"shugly/internal/modules/review"
	"shugly/internal/modules/worker"
	"shugly/internal/notification"
	"shugly/internal/pkg/jwt"
	"shugly/internal/repository"
	"shugly/internal/session"
	"shugly/internal/storage"
)

type Deps struct {
	Stores      repository.Stores
	Tokens      *jwt.Service
	Sessions    *session.Provider
	Images      *storage.ImageStore
	Notifier    *notification.Notifier
	Hub         *chat.Hub
	Broadcaster chat.Broadcaster

	// CatalogCache is optional.
	CatalogCache catalog.Cache
}

// NewHandlers builds every module service on top of the selected stores.
func NewHandlers(d Deps) Handlers {
	s := d.Stores

	bookingService := booking.NewService(s.Bookings, s.Workers, s.Users, d.Notifier)

	return Handlers{
		Auth:    auth.NewHandler(auth.NewService(s.Users, d.Tokens, d.Sessions)),
		Worker:  worker.NewHandler(worker.NewService(s.Workers, s.Users, s.Bookings, d.Images)),
		Booking: booking.NewHandler(bookingService),
		Review:  review.NewHandler(review.NewService(s.Reviews, s.Bookings, s.Workers, s.Users, d.Notifier)),
		Chat: chat.NewHandler(
			chat.NewService(s.Messages, s.Users, d.Notifier, d.Broadcaster, d.Hub),
			d.Hub,
			d.Sessions,
		),
		Admin:   admin.NewHandler(admin.NewService(s.Users, s.Workers, s.Bookings, bookingService)),
		Catalog: catalog.NewHandler(catalog.NewService(s.Workers, d.CatalogCache)),
	}
}
