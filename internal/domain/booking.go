package domain

import (
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingAccepted,
	BookingRejected,
	BookingCompleted,
	BookingCancelled,
}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCompleted || s == BookingCancelled
}

type Booking struct {
	ID            string        `json:"id"`
	CustomerID    string        `json:"customer_id"`
	WorkerID      string        `json:"worker_id"`
	Service       string        `json:"service"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Duration      int           `json:"duration"`
	TotalPrice    float64       `json:"total_price"`
	Status        BookingStatus `json:"status"`
	AdminApproved bool          `json:"admin_approved"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BookingPrice is hourlyRate × duration rounded to cents. It is computed once at creation.
func BookingPrice(hourlyRate float64, duration int) float64 {
	return math.Round(hourlyRate*float64(duration)*100) / 100
}

// BookingFilter narrows admin listings; zero values match everything.
type BookingFilter struct {
	Status     BookingStatus
	CustomerID string
	WorkerID   string
}

type BookingCounts struct {
	Total     int64   `json:"total"`
	Pending   int64   `json:"pending"`
	Accepted  int64   `json:"accepted"`
	Rejected  int64   `json:"rejected"`
	Completed int64   `json:"completed"`
	Cancelled int64   `json:"cancelled"`
	Revenue   float64 `json:"revenue"`
}

// Add accumulates one status bucket.
func (c *BookingCounts) Add(status BookingStatus, count int64, sum float64) {
	c.Total += count
	switch status {
	case BookingPending:
		c.Pending += count
	case BookingAccepted:
		c.Accepted += count
	case BookingRejected:
		c.Rejected += count
	case BookingCompleted:
		c.Completed += count
		c.Revenue += sum
	case BookingCancelled:
		c.Cancelled += count
	}
}
