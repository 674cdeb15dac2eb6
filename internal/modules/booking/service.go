package booking

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/validator"
	"servicebooking/internal/repository"
)

// accepted values of the booking_date_time field, first is the
// datetime-local input format
var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// maxTransitionAttempts bounds retries when a status write loses a race.
const maxTransitionAttempts = 3

type Service struct {
	bookings BookingRepository
	services ServiceReader
	loc      *time.Location
	now      func() time.Time
}

// NewService builds the booking service. Form date-times are read in loc.
func NewService(bookings BookingRepository, services ServiceReader, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		bookings: bookings,
		services: services,
		loc:      loc,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Location is the zone booking form values are interpreted in.
func (s *Service) Location() *time.Location { return s.loc }

// Now is the service clock.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) GetService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

// CreateBooking places a Pending booking for customerID. The requested time
// must lie strictly after now; form problems come back as validator.FieldErrors
// and nothing is written.
func (s *Service) CreateBooking(ctx context.Context, customerID, serviceID int64, form BookingForm) (*domain.Booking, error) {
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	errs := validator.Validate(form)
	if errs == nil {
		errs = validator.FieldErrors{}
	}

	now := s.now()
	var at time.Time
	if _, bad := errs["booking_date_time"]; !bad {
		at, err = s.parseDateTime(form.BookingDateTime)
		switch {
		case err != nil:
			errs.Add("booking_date_time", "Enter a valid date/time.")
		case !at.After(now):
			errs.Add("booking_date_time", msgPastDateTime)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	b := &domain.Booking{
		CustomerID:      customerID,
		ServiceID:       svc.ID,
		Name:            strings.TrimSpace(form.Name),
		ContactNumber:   strings.TrimSpace(form.ContactNumber),
		Address:         strings.TrimSpace(form.Address),
		BookingDateTime: at.UTC(),
		Status:          domain.BookingPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Service = svc
	return b, nil
}

func (s *Service) parseDateTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, v, s.loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Dashboard loads the customer's bookings and partitions them around now.
func (s *Service) Dashboard(ctx context.Context, customerID int64) (*Dashboard, error) {
	all, err := s.bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	d := PartitionDashboard(all, s.now())
	return &d, nil
}

// PartitionDashboard sorts bookings into the dashboard lists.
//
// Upcoming: Pending or Approved, scheduled after now, soonest first.
// Past: Completed, Declined or Cancelled, scheduled at or before now, latest first.
// Missed: Pending or Approved, scheduled at or before now, latest first.
// Closed bookings scheduled in the future appear in none of the lists.
func PartitionDashboard(bookings []domain.Booking, now time.Time) Dashboard {
	d := Dashboard{
		Upcoming: []domain.Booking{},
		Past:     []domain.Booking{},
		Missed:   []domain.Booking{},
	}
	for _, b := range bookings {
		future := b.BookingDateTime.After(now)
		switch {
		case b.Status.IsOpen() && future:
			d.Upcoming = append(d.Upcoming, b)
		case b.Status.IsOpen():
			d.Missed = append(d.Missed, b)
		case b.Status.IsClosed() && !future:
			d.Past = append(d.Past, b)
		}
	}

	sort.SliceStable(d.Upcoming, func(i, j int) bool {
		return d.Upcoming[i].BookingDateTime.Before(d.Upcoming[j].BookingDateTime)
	})
	sort.SliceStable(d.Past, func(i, j int) bool {
		return d.Past[i].BookingDateTime.After(d.Past[j].BookingDateTime)
	})
	sort.SliceStable(d.Missed, func(i, j int) bool {
		return d.Missed[i].BookingDateTime.After(d.Missed[j].BookingDateTime)
	})
	return d
}

// History returns every booking of the customer, latest booking date first.
func (s *Service) History(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

// GetCustomerBooking finds a booking owned by customerID. Bookings of other
// customers are reported as not found.
func (s *Service) GetCustomerBooking(ctx context.Context, customerID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetForCustomer(ctx, bookingID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// TransitionForCustomer moves a customer's own booking to status to.
// It reports whether the stored status changed; re-applying the current
// status succeeds without a write.
func (s *Service) TransitionForCustomer(ctx context.Context, customerID, bookingID int64, to domain.BookingStatus) (*domain.Booking, bool, error) {
	b, err := s.GetCustomerBooking(ctx, customerID, bookingID)
	if err != nil {
		return nil, false, err
	}
	changed, err := s.moveTo(ctx, b, to)
	if err != nil {
		return nil, false, err
	}
	return b, changed, nil
}

// CancelBooking lets a customer cancel a booking that is still open.
func (s *Service) CancelBooking(ctx context.Context, customerID, bookingID int64) (*domain.Booking, error) {
	b, _, err := s.TransitionForCustomer(ctx, customerID, bookingID, domain.BookingCancelled)
	return b, err
}

// BulkSetStatus is the admin action. Each booking goes through the
// transition table on its own; bookings that may not move are skipped.
func (s *Service) BulkSetStatus(ctx context.Context, ids []int64, status domain.BookingStatus) (*BulkStatusResult, error) {
	if !isBulkStatus(status) {
		return nil, ErrInvalidStatus
	}

	ids = uniqueIDs(ids)
	res := &BulkStatusResult{
		Status:  status,
		Updated: []int64{},
		Skipped: []int64{},
		Missing: []int64{},
	}

	found, err := s.bookings.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Booking, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			res.Missing = append(res.Missing, id)
			continue
		}

		_, err := s.moveTo(ctx, b, status)
		switch {
		case err == nil:
			res.Updated = append(res.Updated, id)
		case errors.Is(err, ErrInvalidStatusTransition), errors.Is(err, ErrConcurrentUpdate):
			res.Skipped = append(res.Skipped, id)
		case errors.Is(err, ErrBookingNotFound):
			res.Missing = append(res.Missing, id)
		default:
			return nil, err
		}
	}
	return res, nil
}

// moveTo applies one status change with a compare-and-set write, re-reading
// the row when another writer got there first.
func (s *Service) moveTo(ctx context.Context, b *domain.Booking, to domain.BookingStatus) (bool, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		if b.Status == to {
			return false, nil
		}
		if !domain.CanTransition(b.Status, to) {
			return false, ErrInvalidStatusTransition
		}

		ok, err := s.bookings.CompareAndSetStatus(ctx, b.ID, b.Status, to)
		if err != nil {
			return false, err
		}
		if ok {
			b.Status = to
			b.UpdatedAt = s.now()
			return true, nil
		}

		fresh, err := s.bookings.GetByID(ctx, b.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, ErrBookingNotFound
			}
			return false, err
		}
		b.Status = fresh.Status
	}
	return false, ErrConcurrentUpdate
}

func isBulkStatus(status domain.BookingStatus) bool {
	for _, s := range domain.AdminBulkStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
