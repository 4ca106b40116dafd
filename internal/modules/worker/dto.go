package worker

type UpdateProfileRequest struct {
	Services     []string `json:"services" binding:"omitempty,dive,required"`
	HourlyRate   float64  `json:"hourly_rate" binding:"required,gt=0"`
	Bio          string   `json:"bio" binding:"max=2000"`
	Location     string   `json:"location" binding:"max=100"`
	Availability *bool    `json:"availability"`
}

// ListFilter narrows the public worker listing. Zero values match everything.
type ListFilter struct {
	Query     string  `form:"q" binding:"max=100"`
	Service   string  `form:"service"`
	MinRating float64 `form:"min_rating" binding:"gte=0,lte=5"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type Stats struct {
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	AcceptedBookings  int64   `json:"accepted_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	Earnings          float64 `json:"earnings"`
	Rating            float64 `json:"rating"`
	ReviewsCount      int     `json:"reviews_count"`
}
