package booking

import "shugly/internal/domain"

type CreateBookingRequest struct {
	WorkerID string `json:"worker_id" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Date     string `json:"date" binding:"required,date_ymd"`
	Time     string `json:"time" binding:"required,time_slot"`
	Duration int    `json:"duration" binding:"required,booking_duration"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// BookingView is a booking as shown to one viewer: counterpart names and the actions
// the viewer's role may take next.
type BookingView struct {
	domain.Booking
	CustomerName string   `json:"customer_name,omitempty"`
	WorkerName   string   `json:"worker_name,omitempty"`
	Actions      []Action `json:"actions"`
}

type CustomerStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}
