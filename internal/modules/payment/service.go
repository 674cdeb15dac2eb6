package payment

import (
	"context"
	"errors"
	"fmt"

	"servicebooking/internal/domain"
	"servicebooking/internal/modules/booking"
)

// Service simulates payment: confirming a payment completes the booking.
type Service struct {
	bookings bookingStatusChanger
}

func NewService(bookings bookingStatusChanger) *Service {
	return &Service{bookings: bookings}
}

// PaymentPage loads the booking shown on the payment simulator page.
func (s *Service) PaymentPage(ctx context.Context, customerID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetCustomerBooking(ctx, customerID, bookingID)
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

// ConfirmPayment marks the actor's own booking Completed. Confirming an
// already Completed booking succeeds again with changed == false.
func (s *Service) ConfirmPayment(ctx context.Context, actorID, bookingID int64) (b *domain.Booking, changed bool, err error) {
	if actorID <= 0 {
		return nil, false, ErrUnauthenticated
	}
	if bookingID <= 0 {
		return nil, false, ErrInvalidRequest
	}

	b, changed, err = s.bookings.TransitionForCustomer(ctx, actorID, bookingID, domain.BookingCompleted)
	if err != nil {
		return nil, false, translate(err)
	}
	return b, changed, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		return ErrBookingNotFound
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		return ErrPaymentNotAllowed
	default:
		return fmt.Errorf("confirm payment: %w", err)
	}
}
