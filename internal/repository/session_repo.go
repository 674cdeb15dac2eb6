package repository

import (
	"context"
	"time"

	"servicebooking/internal/domain"

	"gorm.io/gorm"
)

// SessionRepository keeps sessions in the relational store.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type sessionModel struct {
	ID        string     `gorm:"column:id;primaryKey;size:36"`
	UserID    int64      `gorm:"column:user_id;index;not null"`
	Username  string     `gorm:"column:username;size:150;not null"`
	Role      string     `gorm:"column:role;size:20;not null"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	ExpiresAt time.Time  `gorm:"column:expires_at;index;not null"`
	RevokedAt *time.Time `gorm:"column:revoked_at;index"`

	User *userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (sessionModel) TableName() string { return "sessions" }

func toDomainSession(m sessionModel) *domain.Session {
	var revoked *time.Time
	if m.RevokedAt != nil {
		v := m.RevokedAt.UTC()
		revoked = &v
	}
	return &domain.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		Username:  m.Username,
		Role:      domain.UserRole(m.Role),
		CreatedAt: m.CreatedAt.UTC(),
		ExpiresAt: m.ExpiresAt.UTC(),
		RevokedAt: revoked,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	m := sessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		Username:  s.Username,
		Role:      string(s.Role),
		CreatedAt: s.CreatedAt.UTC(),
		ExpiresAt: s.ExpiresAt.UTC(),
	}
	return translate(r.db.WithContext(ctx).Omit("User").Create(&m).Error)
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var m sessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainSession(m), nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now().UTC()).Error
}

// DeleteStale removes sessions that expired, or were revoked, before cutoff.
func (r *SessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff.UTC(), cutoff.UTC()).
		Delete(&sessionModel{})
	return res.RowsAffected, res.Error
}
