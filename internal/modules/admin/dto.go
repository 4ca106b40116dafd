package admin

import "shugly/internal/domain"

type ChangeRoleRequest struct {
	Role domain.UserRole `json:"role" binding:"required,oneof=customer worker admin"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type Stats struct {
	Users     int64                `json:"users"`
	Customers int64                `json:"customers"`
	Workers   int64                `json:"workers"`
	Admins    int64                `json:"admins"`
	Bookings  domain.BookingCounts `json:"bookings"`
	Revenue   float64              `json:"revenue"`
}

type BackfillReport struct {
	Updated int64 `json:"updated"`
}

// RepairReport counts worker-role users checked for a missing worker record.
type RepairReport struct {
	Checked int `json:"checked"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}
