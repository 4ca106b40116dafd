package domain

import (
	"math"
	"time"
)

const DefaultHourlyRate = 50.0

// Worker is the provider profile of a user with role worker. ID equals the user ID.
type Worker struct {
	ID           string    `json:"id"`
	Services     []string  `json:"services"`
	HourlyRate   float64   `json:"hourly_rate"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviews_count"`
	RatingSum    int       `json:"-"`
	Bio          string    `json:"bio"`
	Images       []string  `json:"images"`
	Location     string    `json:"location"`
	Availability bool      `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Populated on reads that join the owning user.
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// NewWorker returns the record created alongside a worker account.
func NewWorker(userID string) *Worker {
	return &Worker{
		ID:           userID,
		Services:     []string{},
		Images:       []string{},
		HourlyRate:   DefaultHourlyRate,
		Availability: true,
	}
}

func (w *Worker) Offers(service string) bool {
	for _, s := range w.Services {
		if s == service {
			return true
		}
	}
	return false
}

// ApplyRating folds a new review into the average. The average is always derived from
// the exact sum, so rounding never compounds.
func (w *Worker) ApplyRating(rating int) {
	if w.RatingSum == 0 && w.ReviewsCount > 0 {
		// records written before the sum was kept
		w.RatingSum = int(math.Round(w.Rating * float64(w.ReviewsCount)))
	}
	w.RatingSum += rating
	w.ReviewsCount++
	w.Rating = math.Round(float64(w.RatingSum)/float64(w.ReviewsCount)*100) / 100
}

// WorkerProfileUpdate carries the fields a worker edits on their own profile.
// Availability is toggled separately and never touched here.
type WorkerProfileUpdate struct {
	Services   []string
	HourlyRate float64
	Bio        string
	Location   string
}
