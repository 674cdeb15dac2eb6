package booking

import "errors"

var (
	ErrServiceNotFound         = errors.New("service not found")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrInvalidStatus           = errors.New("invalid booking status")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrConcurrentUpdate        = errors.New("booking changed concurrently")
)

const msgPastDateTime = "The booking date and time must be in the future."
