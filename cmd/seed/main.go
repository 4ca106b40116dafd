package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"shugly/internal/config"
	"shugly/internal/domain"
	"shugly/internal/logging"
	"shugly/internal/repository"
	"shugly/internal/server"

	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "demo1234"

type demoWorker struct {
	name     string
	email    string
	phone    string
	services []string
	rate     float64
	location string
	bio      string
}

var demoWorkers = []demoWorker{
	{"فاطمة علي", "fatima@shugly.iq", "07701234567", []string{"تنظيف المنزل", "غسيل الأطباق", "تنظيف المطبخ"}, 50, "بغداد", "خبرة خمس سنوات في تنظيف المنازل"},
	{"زينب حسن", "zainab@shugly.iq", "07711234567", []string{"طبخ", "تنظيم المنزل"}, 60, "البصرة", "طبخ عراقي تقليدي"},
	{"مريم كاظم", "maryam@shugly.iq", "07721234567", []string{"رعاية الأطفال", "رعاية المسنين"}, 70, "أربيل", ""},
	{"نور جاسم", "noor@shugly.iq", "07731234567", nil, 45, "النجف", ""},
}

var demoCustomers = []struct{ name, email, phone string }{
	{"أحمد محمد", "ahmed@example.iq", "07801234567"},
	{"سارة عبد الله", "sara@example.iq", "07811234567"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	stores, closeStores, err := server.OpenStores(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStores()

	if err := seedAdmin(ctx, stores.Users, cfg.Bootstrap); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	n, err := stores.Users.Count(ctx, domain.RoleWorker)
	if err != nil {
		log.Fatalf("count workers: %v", err)
	}
	if n > 0 {
		slog.Info("workers already present, skipping demo data", "workers", n)
		return
	}
	if err := seedDemo(ctx, stores); err != nil {
		log.Fatalf("seed demo data: %v", err)
	}
	slog.Info("demo data created", "password", demoPassword)
}

func seedAdmin(ctx context.Context, users repository.Users, b config.BootstrapConfig) error {
	if _, err := users.GetByEmail(ctx, b.AdminEmail); err == nil {
		slog.Info("admin already exists", "email", b.AdminEmail)
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(b.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Name:         "مدير النظام",
		Email:        b.AdminEmail,
		Role:         domain.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	slog.Info("admin created", "email", b.AdminEmail)
	return nil
}

func seedDemo(ctx context.Context, s repository.Stores) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var workers []*domain.Worker
	for _, dw := range demoWorkers {
		u := &domain.User{Name: dw.name, Email: dw.email, Phone: dw.phone, Role: domain.RoleWorker, PasswordHash: string(hash)}
		if err := s.Users.CreateAccount(ctx, u, domain.NewWorker("")); err != nil {
			return fmt.Errorf("create worker %s: %w", dw.email, err)
		}
		w, err := s.Workers.UpsertProfile(ctx, u.ID, domain.WorkerProfileUpdate{
			Services:   dw.services,
			HourlyRate: dw.rate,
			Bio:        dw.bio,
			Location:   dw.location,
		})
		if err != nil {
			return fmt.Errorf("update worker %s: %w", dw.email, err)
		}
		workers = append(workers, w)
	}

	var customers []*domain.User
	for _, dc := range demoCustomers {
		u := &domain.User{Name: dc.name, Email: dc.email, Phone: dc.phone, Role: domain.RoleCustomer, PasswordHash: string(hash)}
		if err := s.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("create customer %s: %w", dc.email, err)
		}
		customers = append(customers, u)
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	lastWeek := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	pending := newBooking(customers[0], workers[1], "طبخ", tomorrow, "12:00", 2)
	if err := s.Bookings.Create(ctx, pending); err != nil {
		return err
	}

	done := newBooking(customers[0], workers[0], "تنظيف المنزل", lastWeek, "09:00", 3)
	if err := s.Bookings.Create(ctx, done); err != nil {
		return err
	}
	if _, err := s.Bookings.Transition(ctx, done.ID, domain.BookingPending, domain.BookingAccepted, nil); err != nil {
		return err
	}
	if _, err := s.Bookings.Transition(ctx, done.ID, domain.BookingAccepted, domain.BookingCompleted, nil); err != nil {
		return err
	}

	review := &domain.Review{
		BookingID:  done.ID,
		CustomerID: customers[0].ID,
		WorkerID:   workers[0].ID,
		Rating:     5,
		Comment:    "عمل ممتاز وفي الوقت المحدد",
	}
	if err := s.Reviews.Create(ctx, review); err != nil {
		return err
	}
	if err := s.Workers.ApplyReview(ctx, workers[0].ID, review.Rating); err != nil {
		return err
	}

	msg := &domain.Message{
		ConversationID: domain.ConversationID(customers[1].ID, workers[2].ID),
		SenderID:       customers[1].ID,
		ReceiverID:     workers[2].ID,
		Text:           "مرحبا، هل أنت متاحة يوم الخميس؟",
	}
	return s.Messages.Create(ctx, msg)
}

func newBooking(c *domain.User, w *domain.Worker, service, date, slot string, hours int) *domain.Booking {
	return &domain.Booking{
		CustomerID: c.ID,
		WorkerID:   w.ID,
		Service:    service,
		Date:       date,
		Time:       slot,
		Duration:   hours,
		TotalPrice: domain.BookingPrice(w.HourlyRate, hours),
		Status:     domain.BookingPending,
	}
}
