package catalog

import (
	"context"
	"errors"
	"strings"

	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/validator"
	"servicebooking/internal/repository"

	"github.com/shopspring/decimal"
)

// maxPrice is the largest value a numeric(10,2) column holds.
var maxPrice = decimal.RequireFromString("99999999.99")

type Service struct {
	services ServiceRepository
}

func NewService(services ServiceRepository) *Service {
	return &Service{services: services}
}

// ListServices returns the whole catalog ordered by name.
func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx, 0)
}

// FeaturedServices returns the first few services of the catalog for the landing page.
func (s *Service) FeaturedServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx, domain.FeaturedServicesLimit)
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

// SearchServices matches name or description, case-insensitively.
// An empty query lists everything.
func (s *Service) SearchServices(ctx context.Context, query string) ([]domain.Service, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListServices(ctx)
	}
	return s.services.Search(ctx, query)
}

func (s *Service) CreateService(ctx context.Context, req ServiceRequest) (*domain.Service, error) {
	if errs := validateService(req); errs != nil {
		return nil, errs
	}

	svc := &domain.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, id int64, req ServiceRequest) (*domain.Service, error) {
	if errs := validateService(req); errs != nil {
		return nil, errs
	}

	svc := &domain.Service{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
	}
	if err := s.services.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

// DeleteService removes the service together with all of its bookings and
// reports how many bookings went with it.
func (s *Service) DeleteService(ctx context.Context, id int64) (int64, error) {
	removed, err := s.services.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrServiceNotFound
		}
		return 0, err
	}
	return removed, nil
}

func validateService(req ServiceRequest) validator.FieldErrors {
	errs := validator.Validate(req)
	if errs == nil {
		errs = validator.FieldErrors{}
	}

	if req.Price != nil {
		switch {
		case req.Price.IsNegative():
			errs.Add("price", "Ensure this value is greater than or equal to 0.")
		case req.Price.Exponent() < -2 && !req.Price.Equal(req.Price.Round(2)):
			errs.Add("price", "Ensure that there are no more than 2 decimal places.")
		case req.Price.GreaterThan(maxPrice):
			errs.Add("price", "Ensure that there are no more than 10 digits in total.")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
