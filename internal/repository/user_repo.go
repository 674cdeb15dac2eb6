package repository

import (
	"context"
	"strings"
	"time"

	"servicebooking/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;size:150;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:254;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FirstName    *string   `gorm:"column:first_name;size:150"`
	LastName     *string   `gorm:"column:last_name;size:150"`
	Role         string    `gorm:"column:role;size:20;not null;default:customer"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var first, last string
	if m.FirstName != nil {
		first = *m.FirstName
	}
	if m.LastName != nil {
		last = *m.LastName
	}

	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    first,
		LastName:     last,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var first, last *string
	if u.FirstName != "" {
		v := u.FirstName
		first = &v
	}
	if u.LastName != "" {
		v := u.LastName
		last = &v
	}

	return userModel{
		ID:           u.ID,
		Username:     strings.TrimSpace(u.Username),
		Email:        normalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		FirstName:    first,
		LastName:     last,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return translate(err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&cnt).Error
	return cnt > 0, err
}
