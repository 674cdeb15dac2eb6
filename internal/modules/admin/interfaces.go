package admin

import (
	"context"

	"servicebooking/internal/domain"
	"servicebooking/internal/repository"
)

type ServiceRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int) ([]domain.Service, error)
}

type BookingRepository interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error)
	Filter(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error)
}
