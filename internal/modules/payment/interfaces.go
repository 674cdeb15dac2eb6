package payment

import (
	"context"

	"servicebooking/internal/domain"
)

// bookingStatusChanger is the slice of the booking service payment needs.
type bookingStatusChanger interface {
	GetCustomerBooking(ctx context.Context, customerID, bookingID int64) (*domain.Booking, error)
	TransitionForCustomer(ctx context.Context, customerID, bookingID int64, to domain.BookingStatus) (*domain.Booking, bool, error)
}
