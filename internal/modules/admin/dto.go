package admin

import "servicebooking/internal/domain"

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// exportLimit caps the rows written to one spreadsheet.
	exportLimit = 10000
)

type Stats struct {
	Services int64 `json:"services"`
	Bookings int64 `json:"bookings"`
	Pending  int64 `json:"pending"`
}

// BookingListQuery carries the admin booking filters from the query string.
// Dates are YYYY-MM-DD (read in the app timezone, To is inclusive) or RFC 3339.
type BookingListQuery struct {
	Status    string `form:"status"`
	ServiceID int64  `form:"service_id"`
	From      string `form:"from"`
	To        string `form:"to"`
	Query     string `form:"q"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

type BookingPage struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}
