package booking

import (
	"context"

	"servicebooking/internal/domain"
)

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetForCustomer(ctx context.Context, id, customerID int64) (*domain.Booking, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	CompareAndSetStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error)
}

type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}
