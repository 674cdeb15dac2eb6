package booking

import "servicebooking/internal/domain"

// BookingForm mirrors the booking form fields.
type BookingForm struct {
	BookingDateTime string `form:"booking_date_time" validate:"required"`
	Name            string `form:"name" validate:"required,notblank,max=100"`
	ContactNumber   string `form:"contact_number" validate:"required,notblank,max=15"`
	Address         string `form:"address" validate:"required,notblank,max=255"`
}

// Dashboard splits a customer's bookings around the current time.
// Missed holds bookings whose time has passed while still Pending or Approved.
type Dashboard struct {
	Upcoming []domain.Booking
	Past     []domain.Booking
	Missed   []domain.Booking
}

type BulkStatusRequest struct {
	IDs    []int64              `json:"ids" binding:"required,min=1"`
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type BulkStatusResult struct {
	Status  domain.BookingStatus `json:"status"`
	Updated []int64              `json:"updated"`
	Skipped []int64              `json:"skipped"`
	Missing []int64              `json:"missing"`
}
