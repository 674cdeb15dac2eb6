package catalog

import "github.com/shopspring/decimal"

// ServiceRequest is the admin payload for creating or replacing a service.
type ServiceRequest struct {
	Name        string           `json:"name" validate:"required,notblank,max=200"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
}

type DeleteServiceResponse struct {
	ID              int64 `json:"id"`
	BookingsRemoved int64 `json:"bookings_removed"`
}
