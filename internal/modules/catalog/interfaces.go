package catalog

import (
	"context"

	"servicebooking/internal/domain"
)

type ServiceRepository interface {
	List(ctx context.Context, limit int) ([]domain.Service, error)
	Search(ctx context.Context, query string) ([]domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) (int64, error)
}
