package repository

import (
	"context"
	"strings"

	"servicebooking/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;size:200;not null;index"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	return serviceModel{
		ID:          s.ID,
		Name:        strings.TrimSpace(s.Name),
		Description: s.Description,
		Price:       s.Price.Round(2),
	}
}

func toDomainServices(rows []serviceModel) []domain.Service {
	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainService(m))
	}
	return out
}

// List returns the catalog ordered by name. limit <= 0 means no limit.
func (r *ServiceRepository) List(ctx context.Context, limit int) ([]domain.Service, error) {
	var rows []serviceModel
	q := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainServices(rows), nil
}

// Search matches name or description, case-insensitively.
func (r *ServiceRepository) Search(ctx context.Context, query string) ([]domain.Service, error) {
	var rows []serviceModel
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Order("name ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainServices(rows), nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	tx := r.db.WithContext(ctx).Model(&serviceModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"name":        m.Name,
			"description": m.Description,
			"price":       m.Price,
		})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	*s = *toDomainService(m)
	return nil
}

// Delete removes the service together with every booking that references it.
// It returns the number of bookings removed.
func (r *ServiceRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("service_id = ?", id).Delete(&bookingModel{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		res = tx.Delete(&serviceModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	return removed, nil
}

func (r *ServiceRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&serviceModel{}).Count(&cnt).Error
	return cnt, err
}
