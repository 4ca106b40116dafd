package catalog

import "shugly/internal/domain"

// ServiceEntry is one catalog service with the number of available workers offering it.
type ServiceEntry struct {
	Name             string `json:"name"`
	AvailableWorkers int    `json:"available_workers"`
}

type Meta struct {
	Services        []string               `json:"services"`
	TimeSlots       []string               `json:"time_slots"`
	Durations       []int                  `json:"durations"`
	Cities          []string               `json:"cities"`
	BookingStatuses []domain.BookingStatus `json:"booking_statuses"`
}
