package admin

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/repository"
)

type Service struct {
	services ServiceRepository
	bookings BookingRepository
	loc      *time.Location
}

func NewService(services ServiceRepository, bookings BookingRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{services: services, bookings: bookings, loc: loc}
}

// Stats returns the headline counts shown on the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	services, err := s.services.Count(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.bookings.CountByStatus(ctx, domain.BookingPending)
	if err != nil {
		return nil, err
	}
	return &Stats{Services: services, Bookings: bookings, Pending: pending}, nil
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx, 0)
}

// ListBookings returns one page of bookings matching q, newest booking date first.
func (s *Service) ListBookings(ctx context.Context, q BookingListQuery) (*BookingPage, error) {
	f, err := s.toFilter(q)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	if page-1 > math.MaxInt/limit {
		return nil, fmt.Errorf("%w: page %d out of range", ErrInvalidFilter, page)
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	rows, total, err := s.bookings.Filter(ctx, f)
	if err != nil {
		return nil, err
	}
	return &BookingPage{Bookings: rows, Total: total, Page: page, Limit: limit}, nil
}

func (s *Service) toFilter(q BookingListQuery) (repository.BookingFilter, error) {
	f := repository.BookingFilter{
		ServiceID: q.ServiceID,
		Query:     strings.TrimSpace(q.Query),
	}

	if st := strings.TrimSpace(q.Status); st != "" {
		status := domain.BookingStatus(st)
		if !status.Valid() {
			return f, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, st)
		}
		f.Status = status
	}

	if q.From != "" {
		from, _, err := s.parseDate(q.From)
		if err != nil {
			return f, fmt.Errorf("%w: from: %v", ErrInvalidFilter, err)
		}
		f.From = &from
	}
	if q.To != "" {
		to, dateOnly, err := s.parseDate(q.To)
		if err != nil {
			return f, fmt.Errorf("%w: to: %v", ErrInvalidFilter, err)
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, fmt.Errorf("%w: from must be before to", ErrInvalidFilter)
	}
	return f, nil
}

func (s *Service) parseDate(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation("2006-01-02", v, s.loc); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
