package repository

import (
	"context"
	"strings"
	"time"

	"servicebooking/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	CustomerID      int64     `gorm:"column:customer_id;not null;index"`
	ServiceID       int64     `gorm:"column:service_id;not null;index"`
	Name            string    `gorm:"column:name;size:100;not null"`
	ContactNumber   string    `gorm:"column:contact_number;size:15;not null"`
	Address         string    `gorm:"column:address;type:text;not null"`
	BookingDateTime time.Time `gorm:"column:booking_date_time;not null;index"`
	Status          string    `gorm:"column:status;size:20;not null;default:Pending;index"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`

	Customer *userModel    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Service  *serviceModel `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

func (bookingModel) TableName() string { return "bookings" }

// BookingFilter narrows the admin booking listing. Zero values mean "any".
type BookingFilter struct {
	Status    domain.BookingStatus
	ServiceID int64
	From      *time.Time
	To        *time.Time
	Query     string // customer username or service name contains
	Limit     int
	Offset    int
}

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		ServiceID:       m.ServiceID,
		Name:            m.Name,
		ContactNumber:   m.ContactNumber,
		Address:         m.Address,
		BookingDateTime: m.BookingDateTime.UTC(),
		Status:          domain.BookingStatus(m.Status),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if m.Customer != nil {
		b.Customer = toDomainUser(*m.Customer)
	}
	if m.Service != nil {
		b.Service = toDomainService(*m.Service)
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ServiceID:       b.ServiceID,
		Name:            strings.TrimSpace(b.Name),
		ContactNumber:   strings.TrimSpace(b.ContactNumber),
		Address:         strings.TrimSpace(b.Address),
		BookingDateTime: b.BookingDateTime.UTC(),
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt.UTC(),
		UpdatedAt:       b.UpdatedAt.UTC(),
	}
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Omit("Customer", "Service").Create(&m).Error; err != nil {
		return translate(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Preload("Service").First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m), nil
}

// GetForCustomer finds a booking only if it belongs to customerID.
func (r *BookingRepository) GetForCustomer(ctx context.Context, id, customerID int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m), nil
}

// ListByCustomer returns all bookings of a customer, latest booking date first.
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("customer_id = ?", customerID).
		Order("booking_date_time DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Booking, error) {
	if len(ids) == 0 {
		return []domain.Booking{}, nil
	}
	var rows []bookingModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// CompareAndSetStatus moves a booking from one status to another in a single
// row update. It reports false when the row is no longer in status from.
func (r *BookingRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *BookingRepository) filtered(ctx context.Context, f BookingFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&bookingModel{}).
		Joins("JOIN users ON users.id = bookings.customer_id").
		Joins("JOIN services ON services.id = bookings.service_id")

	if f.Status != "" {
		q = q.Where("bookings.status = ?", string(f.Status))
	}
	if f.ServiceID > 0 {
		q = q.Where("bookings.service_id = ?", f.ServiceID)
	}
	if f.From != nil {
		q = q.Where("bookings.booking_date_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("bookings.booking_date_time < ?", f.To.UTC())
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(users.username) LIKE ? OR LOWER(services.name) LIKE ?", like, like)
	}
	return q
}

// Filter returns one page of bookings matching f, newest booking date first,
// together with the total number of matches.
func (r *BookingRepository) Filter(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.filtered(ctx, f).
		Preload("Customer").
		Preload("Service").
		Order("bookings.booking_date_time DESC").Order("bookings.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainBookings(rows), total, nil
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).Count(&cnt).Error
	return cnt, err
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("status = ?", string(status)).
		Count(&cnt).Error
	return cnt, err
}

func (r *BookingRepository) CountByService(ctx context.Context, serviceID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("service_id = ?", serviceID).
		Count(&cnt).Error
	return cnt, err
}
