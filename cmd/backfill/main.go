package main

import (
	"context"
	"log"

	"shugly/internal/config"
	"shugly/internal/logging"
	"shugly/internal/modules/admin"
	"shugly/internal/modules/booking"
	"shugly/internal/notification"
	"shugly/internal/server"
)

// backfill fills admin_approved on legacy bookings and restores missing worker records.
// Both steps are idempotent.
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

	lifecycle := booking.NewService(stores.Bookings, stores.Workers, stores.Users, notification.NewNotifier(stores.Users, nil))
	svc := admin.NewService(stores.Users, stores.Workers, stores.Bookings, lifecycle)

	backfill, err := svc.BackfillAdminApproved(ctx)
	if err != nil {
		log.Fatalf("backfill admin_approved failed after %d rows: %v", backfill.Updated, err)
	}

	repair, err := svc.RepairWorkers(ctx)
	if err != nil {
		log.Fatalf("repair workers failed: %v", err)
	}

	log.Printf("backfill completed: admin_approved=%d workers_checked=%d workers_created=%d workers_failed=%d",
		backfill.Updated, repair.Checked, repair.Created, repair.Failed)
}
