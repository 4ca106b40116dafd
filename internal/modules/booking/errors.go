package booking

import "errors"

var (
	ErrInvalidTransition = errors.New("booking cannot move to that state")
	ErrBookingConflict   = errors.New("booking was changed by someone else")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrForbidden         = errors.New("booking belongs to another user")
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrWorkerUnavailable = errors.New("worker is not available")
	ErrServiceNotOffered = errors.New("worker does not offer this service")
	ErrDateInPast        = errors.New("booking date is in the past")
	ErrInvalidDate       = errors.New("invalid booking date")
	ErrInvalidSlot       = errors.New("invalid time slot or duration")
)
