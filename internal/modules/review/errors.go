package review

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("booking belongs to another customer")
	ErrReviewNotAllowed = errors.New("only completed bookings can be reviewed")
	ErrAlreadyReviewed  = errors.New("booking already has a review")
)
